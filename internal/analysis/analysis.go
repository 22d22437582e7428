// Package analysis runs captured photos through the remote species and
// disease identification endpoint and caches the results locally for
// later scan enrichment.
package analysis

import (
	"context"
	"log/slog"

	"github.com/leaflens/leaflens-go/internal/api"
	"github.com/leaflens/leaflens-go/internal/kvstore"
	"github.com/leaflens/leaflens-go/internal/logging"
	"github.com/leaflens/leaflens-go/internal/model"
	"github.com/leaflens/leaflens-go/internal/reconcile"
)

var logger *slog.Logger

func serviceLogger() *slog.Logger {
	if logger == nil {
		if l := logging.ForService("analysis"); l != nil {
			logger = l
		} else {
			logger = slog.Default().With("service", "analysis")
		}
	}
	return logger
}

// Result is the outcome for one photo of a batch: either a populated
// record or an error, never both.
type Result struct {
	Photo  model.CapturedPhoto
	Record *model.AnalysisRecord
	Err    error
}

// Analyzer uploads photos and maintains the local enrichment list.
type Analyzer struct {
	client *api.Client
	store  kvstore.Store
}

func NewAnalyzer(client *api.Client, store kvstore.Store) *Analyzer {
	return &Analyzer{client: client, store: store}
}

// AnalyzeBatch uploads each photo in order. A failure on one photo does
// not abort the rest: the result list always has one entry per input
// photo, each carrying either a record or an error. Successful records
// are appended to the local enrichment list keyed by the server scan id.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, photos []model.CapturedPhoto, userID, plantID int) []Result {
	results := make([]Result, 0, len(photos))

	for _, photo := range photos {
		resp, err := a.client.Predict(ctx, photo.URI, userID, plantID)
		if err != nil {
			serviceLogger().Warn("photo analysis failed, continuing batch",
				"photo_id", photo.ID, "error", err)
			results = append(results, Result{Photo: photo, Err: err})
			continue
		}

		record := recordFromResponse(resp)
		if err := a.appendRecord(record); err != nil {
			serviceLogger().Warn("failed to cache analysis record",
				"scan_id", record.ScanID, "error", err)
		}
		results = append(results, Result{Photo: photo, Record: &record})
	}

	serviceLogger().Info("batch analysis finished",
		"photos", len(photos), "failed", countFailed(results))
	return results
}

// Records returns the cached enrichment list, oldest first. Storage
// failures degrade to an empty list.
func (a *Analyzer) Records() []model.AnalysisRecord {
	records, _ := kvstore.ReadJSON[[]model.AnalysisRecord](a.store, kvstore.KeyScanAnalysis)
	return records
}

// appendRecord adds one record to the append-only enrichment list.
func (a *Analyzer) appendRecord(record model.AnalysisRecord) error {
	records := a.Records()
	records = append(records, record)
	return kvstore.WriteJSON(a.store, kvstore.KeyScanAnalysis, records)
}

// recordFromResponse takes the top prediction of each kind, defaulting
// like the scan join does when a list comes back empty.
func recordFromResponse(resp *model.PredictionResponse) model.AnalysisRecord {
	record := model.AnalysisRecord{
		ScanID:    resp.ScanID,
		Species:   reconcile.DefaultSpecies,
		Disease:   reconcile.DefaultDisease,
		Timestamp: model.NowISO(),
	}
	if len(resp.SpeciesPredictions) > 0 {
		record.Species = resp.SpeciesPredictions[0].Species
		record.SpeciesConfidence = resp.SpeciesPredictions[0].Confidence
	}
	if len(resp.DiseasePredictions) > 0 {
		record.Disease = resp.DiseasePredictions[0].Disease
		record.DiseaseConfidence = resp.DiseasePredictions[0].Confidence
	}
	return record
}

func countFailed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
