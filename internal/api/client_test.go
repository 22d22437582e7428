package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaflens/leaflens-go/internal/errors"
	"github.com/leaflens/leaflens-go/internal/model"
)

// mockResponse represents a mocked HTTP response
type mockResponse struct {
	status      int
	body        string
	contentType string
}

// setupMockServer creates a mock server with responses keyed by URL path
func setupMockServer(tb testing.TB, responses map[string]mockResponse) *httptest.Server {
	tb.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, ok := responses[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail": "Not found"}`))
			return
		}
		contentType := resp.contentType
		if contentType == "" {
			contentType = "application/json"
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(resp.status)
		_, _ = w.Write([]byte(resp.body))
	}))

	if tt, ok := tb.(*testing.T); ok {
		tt.Cleanup(server.Close)
	}
	return server
}

// setupTestClient creates a client pointed at the given server
func setupTestClient(tb testing.TB, server *httptest.Server, tokens TokenSource) *Client {
	tb.Helper()

	client, err := NewClient(Config{
		BaseURL:  server.URL,
		Timeout:  5 * time.Second,
		CacheTTL: time.Hour,
	}, tokens)
	require.NoError(tb, err)

	if tt, ok := tb.(*testing.T); ok {
		tt.Cleanup(client.Close)
	}
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestCallAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := setupTestClient(t, server, func() string { return "token-42" })
	_, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-42", gotAuth)
}

func TestCallAnonymousWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := setupTestClient(t, server, func() string { return "" })
	_, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestCallNonJSONBodyDoesNotFail(t *testing.T) {
	server := setupMockServer(t, map[string]mockResponse{
		"/status": {status: http.StatusOK, body: "OK", contentType: "text/plain"},
	})
	client := setupTestClient(t, server, nil)

	payload, err := client.Call(context.Background(), http.MethodGet, "/status", nil)
	require.NoError(t, err)
	assert.False(t, payload.Parsed)
	assert.Equal(t, map[string]any{"raw": "OK"}, payload.Map())

	var out map[string]any
	assert.Error(t, payload.Decode(&out))
}

func TestCallErrorResponse(t *testing.T) {
	server := setupMockServer(t, map[string]mockResponse{
		"/users/": {status: http.StatusUnauthorized, body: `{"detail": "Invalid credentials"}`},
	})
	client := setupTestClient(t, server, nil)

	_, err := client.ListUsers(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryHTTP))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestCallNotFoundCategory(t *testing.T) {
	server := setupMockServer(t, map[string]mockResponse{})
	client := setupTestClient(t, server, nil)

	_, err := client.GetPlant(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestCallTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client, err := NewClient(Config{
		BaseURL: server.URL,
		Timeout: 50 * time.Millisecond,
	}, nil)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Call(context.Background(), http.MethodGet, "/slow", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryTimeout))
}

func TestListPlantsUsesCache(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"plant_id": 1, "name": "Tomato"}]`))
	}))
	defer server.Close()

	client := setupTestClient(t, server, nil)

	first, err := client.ListPlants(context.Background())
	require.NoError(t, err)
	second, err := client.ListPlants(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, hits, "second listing should come from cache")
}

func TestListScansFilter(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"scan_id": 3, "user_id": 7}]`))
	}))
	defer server.Close()

	client := setupTestClient(t, server, nil)
	scans, err := client.ListScans(context.Background(), ScanFilter{UserID: 7, PlantID: 2})
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, 3, scans[0].ScanID)
	assert.Equal(t, "plant_id=2&user_id=7", gotQuery)
}

func TestCreateUser(t *testing.T) {
	server := setupMockServer(t, map[string]mockResponse{
		"/users/": {status: http.StatusOK, body: `{"user_id": 12, "name": "Ada", "email": "ada@example.com", "user_type": "regular"}`},
	})
	client := setupTestClient(t, server, nil)

	user, err := client.CreateUser(context.Background(), model.UserRegistration{
		Name:  "Ada",
		Email: "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, user.UserID)
	assert.Equal(t, "ada@example.com", user.Email)
}
