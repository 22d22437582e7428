package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/leaflens/leaflens-go/internal/model"
)

// ScanFilter narrows a scan listing. Zero fields are omitted from the
// query string.
type ScanFilter struct {
	UserID  int
	PlantID int
}

// ListScans returns scan records matching the filter.
func (c *Client) ListScans(ctx context.Context, filter ScanFilter) ([]model.Scan, error) {
	params := url.Values{}
	if filter.UserID != 0 {
		params.Set("user_id", strconv.Itoa(filter.UserID))
	}
	if filter.PlantID != 0 {
		params.Set("plant_id", strconv.Itoa(filter.PlantID))
	}
	path := "/scans/"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	payload, err := c.Call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var scans []model.Scan
	if err := payload.Decode(&scans); err != nil {
		return nil, err
	}
	return scans, nil
}

// GetScan fetches one scan by id.
func (c *Client) GetScan(ctx context.Context, scanID int) (*model.Scan, error) {
	payload, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/scans/%d", scanID), nil)
	if err != nil {
		return nil, err
	}
	var scan model.Scan
	if err := payload.Decode(&scan); err != nil {
		return nil, err
	}
	return &scan, nil
}

// DeleteScan removes a scan record.
func (c *Client) DeleteScan(ctx context.Context, scanID int) error {
	_, err := c.Call(ctx, http.MethodDelete, fmt.Sprintf("/scans/%d", scanID), nil)
	if err != nil {
		return err
	}
	logger.Info("scan deleted", "scan_id", scanID)
	return nil
}
