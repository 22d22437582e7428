package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/patrickmn/go-cache"

	"github.com/leaflens/leaflens-go/internal/model"
)

const (
	plantsCacheKey   = "plants:list"
	diseasesCacheKey = "diseases:list"
)

// ListPlants returns the plant reference list. Results are cached for
// the configured TTL; the list changes rarely.
func (c *Client) ListPlants(ctx context.Context) ([]model.Plant, error) {
	if plants, found := cacheGet[[]model.Plant](c, plantsCacheKey); found {
		logger.Debug("plant list cache hit", "entries", len(plants))
		return plants, nil
	}

	payload, err := c.Call(ctx, http.MethodGet, "/plants/", nil)
	if err != nil {
		return nil, err
	}
	var plants []model.Plant
	if err := payload.Decode(&plants); err != nil {
		return nil, err
	}

	c.cache.Set(plantsCacheKey, plants, cache.DefaultExpiration)
	return plants, nil
}

// GetPlant fetches one plant by id.
func (c *Client) GetPlant(ctx context.Context, plantID int) (*model.Plant, error) {
	payload, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/plants/%d", plantID), nil)
	if err != nil {
		return nil, err
	}
	var plant model.Plant
	if err := payload.Decode(&plant); err != nil {
		return nil, err
	}
	return &plant, nil
}

// CreatePlant adds a plant record and invalidates the cached list.
func (c *Client) CreatePlant(ctx context.Context, plant model.Plant) (*model.Plant, error) {
	payload, err := c.Call(ctx, http.MethodPost, "/plants/", plant)
	if err != nil {
		return nil, err
	}
	var created model.Plant
	if err := payload.Decode(&created); err != nil {
		return nil, err
	}
	c.cache.Delete(plantsCacheKey)
	return &created, nil
}

// ListDiseases returns the disease reference list, cached like plants.
func (c *Client) ListDiseases(ctx context.Context) ([]model.Disease, error) {
	if diseases, found := cacheGet[[]model.Disease](c, diseasesCacheKey); found {
		logger.Debug("disease list cache hit", "entries", len(diseases))
		return diseases, nil
	}

	payload, err := c.Call(ctx, http.MethodGet, "/diseases/", nil)
	if err != nil {
		return nil, err
	}
	var diseases []model.Disease
	if err := payload.Decode(&diseases); err != nil {
		return nil, err
	}

	c.cache.Set(diseasesCacheKey, diseases, cache.DefaultExpiration)
	return diseases, nil
}

// GetDisease fetches one disease by id.
func (c *Client) GetDisease(ctx context.Context, diseaseID int) (*model.Disease, error) {
	payload, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/diseases/%d", diseaseID), nil)
	if err != nil {
		return nil, err
	}
	var disease model.Disease
	if err := payload.Decode(&disease); err != nil {
		return nil, err
	}
	return &disease, nil
}
