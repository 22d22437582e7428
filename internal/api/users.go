package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/leaflens/leaflens-go/internal/model"
)

// CreateUser registers a new account via POST /users/.
func (c *Client) CreateUser(ctx context.Context, reg model.UserRegistration) (*model.User, error) {
	payload, err := c.Call(ctx, http.MethodPost, "/users/", reg)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := payload.Decode(&user); err != nil {
		return nil, err
	}
	logger.Info("user created", "user_id", user.UserID, "email", user.Email)
	return &user, nil
}

// ListUsers returns all backend user records.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	payload, err := c.Call(ctx, http.MethodGet, "/users/", nil)
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := payload.Decode(&users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches one user by id.
func (c *Client) GetUser(ctx context.Context, userID int) (*model.User, error) {
	payload, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/users/%d", userID), nil)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := payload.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserStats returns the aggregate scan/post/like counts for a user.
func (c *Client) GetUserStats(ctx context.Context, userID int) (*model.UserStats, error) {
	payload, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/users/%d/stats", userID), nil)
	if err != nil {
		return nil, err
	}
	var stats model.UserStats
	if err := payload.Decode(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
