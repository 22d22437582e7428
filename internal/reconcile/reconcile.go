// Package reconcile merges remote authoritative records with locally
// cached enrichment data and derives display fields from them. All
// functions are pure: they never fail, never mutate their inputs, and
// produce the same output for the same inputs.
package reconcile

import (
	"sort"
	"time"

	"github.com/leaflens/leaflens-go/internal/model"
)

// Defaults applied when a scan has no matching enrichment record.
const (
	DefaultSpecies = "Unknown"
	DefaultDisease = "Healthy"
)

// EnrichedScan is the display form of a remote scan: the backend record
// plus the species/disease names the backend does not return.
type EnrichedScan struct {
	model.Scan
	Species           string  `json:"species"`
	Disease           string  `json:"disease"`
	SpeciesConfidence float64 `json:"species_confidence"`
	DiseaseConfidence float64 `json:"disease_confidence"`
}

// EnrichScans joins scans with locally cached analysis records by scan
// id. The first record with a matching id wins; scans without a match
// get the defaults. Inputs are left untouched.
func EnrichScans(scans []model.Scan, records []model.AnalysisRecord) []EnrichedScan {
	out := make([]EnrichedScan, 0, len(scans))
	for _, s := range scans {
		e := EnrichedScan{
			Scan:    s,
			Species: DefaultSpecies,
			Disease: DefaultDisease,
		}
		for _, r := range records {
			if r.ScanID == s.ScanID {
				e.Species = r.Species
				e.Disease = r.Disease
				e.SpeciesConfidence = r.SpeciesConfidence
				e.DiseaseConfidence = r.DiseaseConfidence
				break
			}
		}
		out = append(out, e)
	}
	return out
}

// CoverPhoto returns the photo representing a plant in list views: the
// first selected entry, falling back to the first entry in list order.
// The second return is false for an empty list; the caller shows its
// placeholder then. Derived on every call, never cached.
func CoverPhoto(photos []model.PlantPhoto) (model.PlantPhoto, bool) {
	for _, p := range photos {
		if p.IsSelected {
			return p, true
		}
	}
	if len(photos) > 0 {
		return photos[0], true
	}
	return model.PlantPhoto{}, false
}

// Timestamped exposes a record's candidate timestamp fields in priority
// order: date, then timestamp, then created_at.
type Timestamped interface {
	RecencyFields() (date, timestamp, createdAt string)
}

// timeLayouts are tried in order when parsing a recency field.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// recencyTime resolves a record to a single sort key. A record whose
// candidate fields are all empty or unparseable keys at the Unix epoch,
// so it sorts after every dated record.
func recencyTime(t Timestamped) time.Time {
	date, ts, created := t.RecencyFields()
	for _, candidate := range []string{date, ts, created} {
		if candidate == "" {
			continue
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, candidate); err == nil {
				return parsed
			}
		}
	}
	return time.Unix(0, 0).UTC()
}

// SortByRecency returns items ordered newest first. The sort is stable,
// so records sharing a sort key (including the epoch fallback) keep
// their input order. The input slice is not modified.
func SortByRecency[T Timestamped](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return recencyTime(out[i]).After(recencyTime(out[j]))
	})
	return out
}
