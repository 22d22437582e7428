package api

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leaf.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg-bytes"), 0o644))
	return path
}

func TestPredictUploadsMultipart(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	var gotContentType string
	var gotUserID string
	var gotFileName string
	httpmock.RegisterResponder("POST", "https://backend.test/predict_species_and_disease_batch",
		func(req *http.Request) (*http.Response, error) {
			gotContentType = req.Header.Get("Content-Type")
			require.NoError(t, req.ParseMultipartForm(1<<20))
			gotUserID = req.FormValue("user_id")
			if files := req.MultipartForm.File["files"]; len(files) == 1 {
				gotFileName = files[0].Filename
				f, err := files[0].Open()
				require.NoError(t, err)
				data, err := io.ReadAll(f)
				require.NoError(t, err)
				require.NoError(t, f.Close())
				assert.Equal(t, []byte("jpeg-bytes"), data)
			}
			return httpmock.NewStringResponse(http.StatusOK, `{
				"scan_id": 101,
				"species_predictions": [{"species": "Solanum lycopersicum", "confidence": 94.2}],
				"disease_predictions": [{"disease": "Late Blight", "confidence": 71.8}]
			}`), nil
		})

	client, err := NewClient(Config{
		BaseURL: "https://backend.test",
		Timeout: 5 * time.Second,
	}, nil)
	require.NoError(t, err)
	defer client.Close()

	result, err := client.Predict(context.Background(), writeTestImage(t), 7, 0)
	require.NoError(t, err)

	assert.Equal(t, 101, result.ScanID)
	require.Len(t, result.SpeciesPredictions, 1)
	assert.Equal(t, "Solanum lycopersicum", result.SpeciesPredictions[0].Species)
	assert.InDelta(t, 94.2, result.SpeciesPredictions[0].Confidence, 0.001)
	require.Len(t, result.DiseasePredictions, 1)
	assert.Equal(t, "Late Blight", result.DiseasePredictions[0].Disease)

	assert.Contains(t, gotContentType, "multipart/form-data")
	assert.Equal(t, "7", gotUserID)
	assert.Equal(t, "leaf.jpg", gotFileName)
}

func TestPredictServerError(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder("POST", "https://backend.test/predict_species_and_disease_batch",
		httpmock.NewStringResponder(http.StatusInternalServerError, `{"detail": "model unavailable"}`))

	client, err := NewClient(Config{
		BaseURL: "https://backend.test",
		Timeout: 5 * time.Second,
	}, nil)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Predict(context.Background(), writeTestImage(t), 7, 0)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
}

func TestPredictMissingFile(t *testing.T) {
	client, err := NewClient(Config{
		BaseURL: "https://backend.test",
		Timeout: 5 * time.Second,
	}, nil)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Predict(context.Background(), "/no/such/photo.jpg", 7, 0)
	require.Error(t, err)
}
