// Package api implements the LeafLens backend REST client: JSON calls,
// multipart uploads, bearer auth, and tolerant response parsing.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/leaflens/leaflens-go/internal/conf"
	"github.com/leaflens/leaflens-go/internal/errors"
	"github.com/leaflens/leaflens-go/internal/logging"
)

// Package-level logger specific to the api service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar)
	closeLogger     func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "api.log")
	serviceLevelVar.Set(slog.LevelInfo)

	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "api", serviceLevelVar)
	if err != nil {
		log.Printf("Failed to initialize api file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "api")
		closeLogger = func() error { return nil }
	}
}

// TokenSource supplies the bearer token attached to outgoing requests.
// An empty return means the request goes out anonymous.
type TokenSource func() string

// Config holds the client settings.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// DefaultConfig returns the config seeded from the application settings.
func DefaultConfig() Config {
	cfg := Config{
		BaseURL:  "https://leaflens-16s1.onrender.com",
		Timeout:  30 * time.Second,
		CacheTTL: 5 * time.Minute,
	}
	if settings := conf.GetSettings(); settings != nil {
		if settings.Backend.BaseURL != "" {
			cfg.BaseURL = settings.Backend.BaseURL
		}
		if settings.Backend.Timeout > 0 {
			cfg.Timeout = settings.Backend.Timeout
		}
		if settings.Backend.CacheTTL > 0 {
			cfg.CacheTTL = settings.Backend.CacheTTL
		}
	}
	return cfg
}

// Client talks to the LeafLens backend.
type Client struct {
	config     Config
	httpClient *http.Client
	cache      *cache.Cache
	tokens     TokenSource
	debug      bool

	metrics struct {
		apiCalls  int64
		cacheHits int64
		apiErrors int64
		mu        sync.Mutex
	}
}

// NewClient creates a backend client. tokens may be nil for a client
// that never authenticates.
func NewClient(config Config, tokens TokenSource) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.Newf("backend base URL is required").
			Category(errors.CategoryConfiguration).
			Component("api").
			Build()
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultConfig().CacheTTL
	}

	settings := conf.GetSettings()
	debug := settings != nil && settings.Debug

	client := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		cache:  cache.New(config.CacheTTL, config.CacheTTL*2),
		tokens: tokens,
		debug:  debug,
	}

	logger.Info("backend client initialized",
		"base_url", config.BaseURL,
		"timeout", config.Timeout,
		"cache_ttl", config.CacheTTL,
		"debug", debug)

	return client, nil
}

// Close cleans up client resources.
func (c *Client) Close() {
	logger.Info("closing backend client")
	if closeLogger != nil {
		if err := closeLogger(); err != nil {
			log.Printf("Error closing api logger: %v", err)
		}
	}
}

// Call performs a JSON request against the backend. body is marshaled
// as JSON when non-nil. The returned payload holds the raw response
// body with best-effort parsing applied.
func (c *Client) Call(ctx context.Context, method, path string, body any) (*Payload, error) {
	var reader io.Reader
	contentType := ""
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Newf("failed to encode request body: %w", err).
				Category(errors.CategoryValidation).
				Context("method", method).
				Context("path", path).
				Component("api").
				Build()
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, reader, contentType)
}

// Upload performs a multipart POST: one file under fileField plus any
// extra plain form fields. No JSON content type is set; the multipart
// writer supplies its own boundary header.
func (c *Client) Upload(ctx context.Context, path, fileField, filePath string, fields map[string]string) (*Payload, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Newf("failed to open upload file: %w", err).
			Category(errors.CategoryFileIO).
			Context("file_path", filePath).
			Component("api").
			Build()
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close upload file", "file_path", filePath, "error", err)
		}
	}()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(fileField, filepath.Base(filePath))
	if err != nil {
		return nil, errors.Newf("failed to build multipart body: %w", err).
			Category(errors.CategoryFileIO).
			Context("file_path", filePath).
			Component("api").
			Build()
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, errors.Newf("failed to read upload file: %w", err).
			Category(errors.CategoryFileIO).
			Context("file_path", filePath).
			Component("api").
			Build()
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, errors.Newf("failed to write form field: %w", err).
				Category(errors.CategoryFileIO).
				Context("field", k).
				Component("api").
				Build()
		}
	}
	if err := w.Close(); err != nil {
		return nil, errors.Newf("failed to finalize multipart body: %w", err).
			Category(errors.CategoryFileIO).
			Component("api").
			Build()
	}

	return c.do(ctx, http.MethodPost, path, &buf, w.FormDataContentType())
}

// do executes one HTTP round trip and applies the tolerant-parse rule
// to the response body.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*Payload, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	url := c.config.BaseURL + path

	c.metrics.mu.Lock()
	c.metrics.apiCalls++
	c.metrics.mu.Unlock()

	req, err := http.NewRequestWithContext(reqCtx, method, url, body)
	if err != nil {
		c.trackError()
		return nil, errors.Newf("failed to create HTTP request: %w", err).
			Category(errors.CategoryNetwork).
			Context("method", method).
			Context("url", url).
			Component("api").
			Build()
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if c.debug {
		logger.Debug("backend request", "method", method, "url", url)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.trackError()
		logger.Error("backend request failed",
			"error", err,
			"method", method,
			"url", url)
		category := errors.CategoryNetwork
		if reqCtx.Err() == context.DeadlineExceeded {
			category = errors.CategoryTimeout
		}
		return nil, errors.Newf("HTTP request failed: %w", err).
			Category(category).
			Context("method", method).
			Context("url", url).
			Component("api").
			Build()
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			_ = err
		}
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		c.trackError()
		return nil, errors.Newf("failed to read response body: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", url).
			Context("status_code", resp.StatusCode).
			Component("api").
			Build()
	}

	payload := newPayload(resp.StatusCode, bodyBytes)

	if resp.StatusCode >= 400 {
		c.trackError()
		apiErr := &Error{
			Status:  resp.StatusCode,
			Message: payload.Message(),
			Data:    payload,
		}
		logger.Warn("backend error response",
			"status_code", resp.StatusCode,
			"method", method,
			"url", url,
			"message", apiErr.Message)
		return nil, errors.New(apiErr).
			Category(categoryForStatus(resp.StatusCode)).
			Context("status_code", resp.StatusCode).
			Context("url", url).
			Component("api").
			Build()
	}

	if c.debug {
		logger.Debug("backend response",
			"status_code", resp.StatusCode,
			"url", url,
			"duration_ms", time.Since(start).Milliseconds(),
			"response_size", len(bodyBytes))
	}

	return payload, nil
}

func (c *Client) trackError() {
	c.metrics.mu.Lock()
	c.metrics.apiErrors++
	c.metrics.mu.Unlock()
}

// categoryForStatus maps an HTTP status to an error category.
func categoryForStatus(status int) errors.ErrorCategory {
	switch {
	case status == http.StatusNotFound:
		return errors.CategoryNotFound
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return errors.CategoryTimeout
	case status >= 400:
		return errors.CategoryHTTP
	default:
		return errors.CategoryGeneric
	}
}

// cacheGet returns a typed cache entry.
func cacheGet[T any](c *Client, key string) (T, bool) {
	var zero T
	cached, found := c.cache.Get(key)
	if !found {
		return zero, false
	}
	value, ok := cached.(T)
	if !ok {
		return zero, false
	}
	c.metrics.mu.Lock()
	c.metrics.cacheHits++
	c.metrics.mu.Unlock()
	return value, true
}

// InvalidateCache drops all cached GET responses.
func (c *Client) InvalidateCache() {
	c.cache.Flush()
}
