package analysis

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaflens/leaflens-go/internal/api"
	"github.com/leaflens/leaflens-go/internal/kvstore"
	"github.com/leaflens/leaflens-go/internal/model"
)

func newTestAnalyzer(t *testing.T, handler http.HandlerFunc) (*Analyzer, kvstore.Store) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.NewClient(api.Config{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	store := kvstore.NewMemoryStore()
	return NewAnalyzer(client, store), store
}

func testPhotos(t *testing.T, n int) []model.CapturedPhoto {
	t.Helper()
	dir := t.TempDir()
	photos := make([]model.CapturedPhoto, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("photo%d.jpg", i))
		require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o644))
		photos = append(photos, model.CapturedPhoto{
			ID:  fmt.Sprintf("p%d", i),
			URI: path,
		})
	}
	return photos
}

func TestAnalyzeBatchSuccess(t *testing.T) {
	scanID := 100
	analyzer, _ := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		scanID++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"scan_id": %d,
			"species_predictions": [{"species": "Ficus lyrata", "confidence": 88.0}],
			"disease_predictions": [{"disease": "Root Rot", "confidence": 64.5}]
		}`, scanID)
	})

	photos := testPhotos(t, 2)
	results := analyzer.AnalyzeBatch(context.Background(), photos, 7, 0)
	require.Len(t, results, 2)

	for i, res := range results {
		require.NoError(t, res.Err)
		require.NotNil(t, res.Record)
		assert.Equal(t, photos[i].ID, res.Photo.ID)
		assert.Equal(t, "Ficus lyrata", res.Record.Species)
		assert.Equal(t, "Root Rot", res.Record.Disease)
		assert.InDelta(t, 88.0, res.Record.SpeciesConfidence, 0.001)
	}

	records := analyzer.Records()
	require.Len(t, records, 2)
	assert.Equal(t, 101, records[0].ScanID)
	assert.Equal(t, 102, records[1].ScanID)
}

func TestAnalyzeBatchPartialFailure(t *testing.T) {
	call := 0
	analyzer, _ := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		call++
		if call == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail": "model crashed"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"scan_id": %d, "species_predictions": [{"species": "Monstera", "confidence": 90}], "disease_predictions": []}`, call)
	})

	photos := testPhotos(t, 3)
	results := analyzer.AnalyzeBatch(context.Background(), photos, 7, 0)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Record)

	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Record)

	assert.NoError(t, results[2].Err)
	require.NotNil(t, results[2].Record)

	// only the successes are cached
	assert.Len(t, analyzer.Records(), 2)
}

func TestAnalyzeBatchEmptyPredictionsDefault(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"scan_id": 9, "species_predictions": [], "disease_predictions": []}`))
	})

	results := analyzer.AnalyzeBatch(context.Background(), testPhotos(t, 1), 7, 0)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Record)

	assert.Equal(t, "Unknown", results[0].Record.Species)
	assert.Equal(t, "Healthy", results[0].Record.Disease)
	assert.Zero(t, results[0].Record.SpeciesConfidence)
	assert.Zero(t, results[0].Record.DiseaseConfidence)
}

func TestAnalyzeBatchSendsPlantID(t *testing.T) {
	var gotPlantID string
	analyzer, _ := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotPlantID = r.FormValue("plant_id")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"scan_id": 1, "species_predictions": [], "disease_predictions": []}`))
	})

	analyzer.AnalyzeBatch(context.Background(), testPhotos(t, 1), 7, 42)
	assert.Equal(t, "42", gotPlantID)
}

func TestAnalyzeBatchMissingFile(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for unreadable photo")
	})

	results := analyzer.AnalyzeBatch(context.Background(), []model.CapturedPhoto{
		{ID: "p0", URI: "/no/such/file.jpg"},
	}, 7, 0)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.True(t, strings.Contains(results[0].Err.Error(), "failed to open"))
}
