// Package model defines the domain entities exchanged with the LeafLens
// backend and the locally persisted client-side records.
package model

import "time"

// User mirrors the backend user record.
type User struct {
	UserID   int    `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

// UserRegistration is the payload for POST /users/.
type UserRegistration struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	UserType     string `json:"user_type"`
}

// UserStats is the aggregate returned by GET /users/{id}/stats.
type UserStats struct {
	TotalScans int `json:"total_scans"`
	TotalPosts int `json:"total_posts"`
	TotalLikes int `json:"total_likes"`
}

// Plant mirrors the backend plant record.
type Plant struct {
	PlantID    int    `json:"plant_id"`
	Name       string `json:"name"`
	CommonName string `json:"common_name,omitempty"`
	Species    string `json:"species,omitempty"`
}

// Disease mirrors the backend disease record.
type Disease struct {
	DiseaseID  int    `json:"disease_id"`
	Name       string `json:"name"`
	Symptoms   string `json:"symptoms,omitempty"`
	Treatments string `json:"treatments,omitempty"`
	Prevention string `json:"prevention,omitempty"`
}

// Scan mirrors the backend scan record. The backend stores only numeric
// foreign keys; species and disease names come from local enrichment.
type Scan struct {
	ScanID          int      `json:"scan_id"`
	UserID          int      `json:"user_id"`
	PlantID         *int     `json:"plant_id,omitempty"`
	DiseaseID       *int     `json:"disease_id,omitempty"`
	Date            string   `json:"date,omitempty"`
	Timestamp       string   `json:"timestamp,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
}

// ForumPost mirrors the backend forum post record.
type ForumPost struct {
	PostID    int    `json:"post_id"`
	UserID    int    `json:"user_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	LikeCount int    `json:"like_count"`
	Timestamp string `json:"timestamp,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// RecencyFields returns the candidate timestamp strings in priority order.
func (s Scan) RecencyFields() (date, timestamp, createdAt string) {
	return s.Date, s.Timestamp, s.CreatedAt
}

// RecencyFields returns the candidate timestamp strings in priority order.
func (p ForumPost) RecencyFields() (date, timestamp, createdAt string) {
	return "", p.Timestamp, p.CreatedAt
}

// ForumReply mirrors the backend forum reply record.
type ForumReply struct {
	ReplyID int    `json:"reply_id"`
	PostID  int    `json:"post_id"`
	UserID  int    `json:"user_id"`
	Content string `json:"content"`
}

// CapturedPhoto is an entry in the local photo roll. URI points at the
// durable copy in the photo directory, never a transient camera buffer.
type CapturedPhoto struct {
	ID        string `json:"id"`        // time-based string id
	URI       string `json:"uri"`       // local file path
	Timestamp string `json:"timestamp"` // display string
	Date      string `json:"date"`      // ISO-8601
	Selected  bool   `json:"selected"`
}

// PlantPhoto is an entry in a plant's local gallery.
type PlantPhoto struct {
	ID         string `json:"id"`
	URI        string `json:"uri"`
	Timestamp  string `json:"timestamp"`
	IsSelected bool   `json:"isSelected"`
}

// AnalysisRecord is the locally cached enrichment for one scan: the
// species/disease names and confidences the backend does not return on
// scan listings, joined later by scan id.
type AnalysisRecord struct {
	ScanID            int     `json:"scan_id"`
	Species           string  `json:"species"`
	Disease           string  `json:"disease"`
	SpeciesConfidence float64 `json:"species_confidence"` // 0-100
	DiseaseConfidence float64 `json:"disease_confidence"` // 0-100
	Timestamp         string  `json:"timestamp"`
}

// SessionKind distinguishes verified remote identities from locally
// synthesized fallback users.
type SessionKind string

const (
	// SessionAuthenticated is a session backed by a server-side account.
	SessionAuthenticated SessionKind = "authenticated"
	// SessionLocalOnly is a session synthesized on-device after a failed
	// registration; it is not backed by any server-side account and never
	// authenticates against the remote API.
	SessionLocalOnly SessionKind = "local-only"
)

// Session is the cached signed-in identity. Exactly one session is cached
// at a time; it is the sole owner of the bearer token.
type Session struct {
	Kind      SessionKind `json:"kind"`
	UserID    int         `json:"user_id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	UserType  string      `json:"user_type"`
	AuthToken string      `json:"auth_token,omitempty"`
	CreatedAt string      `json:"created_at"`
}

// IsLocalOnly reports whether the session is an offline fallback identity.
func (s *Session) IsLocalOnly() bool {
	return s.Kind == SessionLocalOnly
}

// Token returns the bearer token for remote calls. Local-only sessions
// expose no token.
func (s *Session) Token() string {
	if s == nil || s.IsLocalOnly() {
		return ""
	}
	return s.AuthToken
}

// SpeciesPrediction is one entry of the batch prediction response.
type SpeciesPrediction struct {
	Species    string  `json:"species"`
	Confidence float64 `json:"confidence"` // 0-100
}

// DiseasePrediction is one entry of the batch prediction response.
type DiseasePrediction struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"` // 0-100
}

// PredictionResponse is the payload of POST /predict_species_and_disease_batch.
type PredictionResponse struct {
	ScanID             int                 `json:"scan_id"`
	SpeciesPredictions []SpeciesPrediction `json:"species_predictions"`
	DiseasePredictions []DiseasePrediction `json:"disease_predictions"`
}

// NowISO returns the current time in the ISO-8601 form used for the
// Date fields of locally created records.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
