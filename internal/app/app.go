// Package app wires the client's components together for the command
// handlers: storage, backend client, session, galleries and analysis.
package app

import (
	"github.com/leaflens/leaflens-go/internal/analysis"
	"github.com/leaflens/leaflens-go/internal/api"
	"github.com/leaflens/leaflens-go/internal/conf"
	"github.com/leaflens/leaflens-go/internal/gallery"
	"github.com/leaflens/leaflens-go/internal/kvstore"
	"github.com/leaflens/leaflens-go/internal/logging"
	"github.com/leaflens/leaflens-go/internal/session"
)

// App holds the shared component graph for one command invocation.
type App struct {
	Settings  *conf.Settings
	Store     kvstore.Store
	Client    *api.Client
	Sessions  *session.Manager
	Roll      *gallery.Roll
	Galleries *gallery.PlantGalleries
	Profile   *gallery.ProfilePicture
	Analyzer  *analysis.Analyzer
}

// New opens the local store and builds the component graph. A store
// that cannot be opened degrades to an in-memory one so read-only
// remote operations still work.
func New(settings *conf.Settings) (*App, error) {
	var store kvstore.Store
	store, err := kvstore.OpenSQLite(settings.Storage.DataDir)
	if err != nil {
		logging.Warn("falling back to in-memory storage", "error", err)
		store = kvstore.NewMemoryStore()
	}

	client, err := api.NewClient(api.Config{
		BaseURL:  settings.Backend.BaseURL,
		Timeout:  settings.Backend.Timeout,
		CacheTTL: settings.Backend.CacheTTL,
	}, session.TokenSource(store))
	if err != nil {
		if closeErr := store.Close(); closeErr != nil {
			logging.Warn("failed to close store", "error", closeErr)
		}
		return nil, err
	}
	sessions := session.NewManager(store, client)

	return &App{
		Settings:  settings,
		Store:     store,
		Client:    client,
		Sessions:  sessions,
		Roll:      gallery.NewRoll(store, settings.PhotoDirResolved()),
		Galleries: gallery.NewPlantGalleries(store),
		Profile:   gallery.NewProfilePicture(store),
		Analyzer:  analysis.NewAnalyzer(client, store),
	}, nil
}

// Close releases the store and the backend client.
func (a *App) Close() {
	a.Client.Close()
	if err := a.Store.Close(); err != nil {
		logging.Warn("failed to close store", "error", err)
	}
}
