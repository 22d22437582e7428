package api

import (
	"context"
	"strconv"

	"github.com/leaflens/leaflens-go/internal/model"
)

// Predict uploads one photo for species and disease identification.
// The backend assigns the scan id returned in the response; predictions
// carry 0-100 confidences. plantID 0 means no plant association.
func (c *Client) Predict(ctx context.Context, imagePath string, userID, plantID int) (*model.PredictionResponse, error) {
	fields := map[string]string{
		"user_id": strconv.Itoa(userID),
	}
	if plantID != 0 {
		fields["plant_id"] = strconv.Itoa(plantID)
	}

	payload, err := c.Upload(ctx, "/predict_species_and_disease_batch", "files", imagePath, fields)
	if err != nil {
		return nil, err
	}

	var result model.PredictionResponse
	if err := payload.Decode(&result); err != nil {
		return nil, err
	}

	logger.Info("prediction completed",
		"scan_id", result.ScanID,
		"species_predictions", len(result.SpeciesPredictions),
		"disease_predictions", len(result.DiseasePredictions))
	return &result, nil
}
