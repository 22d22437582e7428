package api

import (
	"encoding/json"
	"fmt"

	"github.com/leaflens/leaflens-go/internal/errors"
)

// Payload is one backend response body. The body is read as text first
// and JSON-parsed best-effort: a non-JSON body does not fail the call,
// it is carried raw and surfaces as {"raw": <text>} from Map. Callers
// must not assume a parsed payload matches their expected schema.
type Payload struct {
	StatusCode int
	Body       []byte
	Parsed     bool
}

func newPayload(status int, body []byte) *Payload {
	return &Payload{
		StatusCode: status,
		Body:       body,
		Parsed:     json.Valid(body),
	}
}

// Decode unmarshals the payload into v. Fails when the body was not
// valid JSON.
func (p *Payload) Decode(v any) error {
	if !p.Parsed {
		return errors.Newf("response body is not JSON").
			Category(errors.CategoryFileParsing).
			Context("status_code", p.StatusCode).
			Context("body_size", len(p.Body)).
			Component("api").
			Build()
	}
	if err := json.Unmarshal(p.Body, v); err != nil {
		return errors.Newf("failed to decode response: %w", err).
			Category(errors.CategoryFileParsing).
			Context("status_code", p.StatusCode).
			Component("api").
			Build()
	}
	return nil
}

// Map returns the body as a generic map. A non-JSON or non-object body
// is wrapped as {"raw": <text>}.
func (p *Payload) Map() map[string]any {
	if p.Parsed {
		var m map[string]any
		if err := json.Unmarshal(p.Body, &m); err == nil {
			return m
		}
	}
	return map[string]any{"raw": string(p.Body)}
}

// Message extracts a human-readable message from the payload: the
// "detail" or "message" field of a JSON object, else the raw text.
func (p *Payload) Message() string {
	m := p.Map()
	for _, key := range []string{"detail", "message", "error"} {
		if v, ok := m[key].(string); ok && v != "" {
			return v
		}
	}
	return string(p.Body)
}

// Error is the structured failure returned for any non-2xx response.
type Error struct {
	Status  int
	Message string
	Data    *Payload
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0 when err does
// not wrap a backend error.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
