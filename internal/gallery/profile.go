package gallery

import (
	"github.com/leaflens/leaflens-go/internal/kvstore"
)

// ProfilePicture is the single cached profile image reference.
type ProfilePicture struct {
	store kvstore.Store
}

func NewProfilePicture(store kvstore.Store) *ProfilePicture {
	return &ProfilePicture{store: store}
}

// Get returns the cached reference, empty when none is set or the read
// fails.
func (p *ProfilePicture) Get() string {
	uri, _ := kvstore.ReadJSON[string](p.store, kvstore.KeyProfilePic)
	return uri
}

// Set replaces the cached reference.
func (p *ProfilePicture) Set(uri string) error {
	return kvstore.WriteJSON(p.store, kvstore.KeyProfilePic, uri)
}

// Clear removes the cached reference.
func (p *ProfilePicture) Clear() error {
	return p.store.Delete(kvstore.KeyProfilePic)
}
