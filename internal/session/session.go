// Package session owns the cached signed-in identity: registration,
// login, sign-out, and the bearer token handed to the backend client.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leaflens/leaflens-go/internal/api"
	"github.com/leaflens/leaflens-go/internal/errors"
	"github.com/leaflens/leaflens-go/internal/kvstore"
	"github.com/leaflens/leaflens-go/internal/logging"
	"github.com/leaflens/leaflens-go/internal/model"
)

var logger *slog.Logger

func serviceLogger() *slog.Logger {
	if logger == nil {
		if l := logging.ForService("session"); l != nil {
			logger = l
		} else {
			logger = slog.Default().With("service", "session")
		}
	}
	return logger
}

// Manager handles the single cached session.
type Manager struct {
	store  kvstore.Store
	client *api.Client
}

func NewManager(store kvstore.Store, client *api.Client) *Manager {
	return &Manager{store: store, client: client}
}

// Current returns the cached session, or nil when signed out. Storage
// failures read as signed out.
func (m *Manager) Current() *model.Session {
	s, found := kvstore.ReadJSON[model.Session](m.store, kvstore.KeyUserData)
	if !found || s.UserID == 0 {
		return nil
	}
	return &s
}

// TokenSource returns the token supplier for the backend client. It
// re-reads the store on every call so a login or sign-out in the same
// process takes effect immediately. Local-only sessions yield no token.
func (m *Manager) TokenSource() api.TokenSource {
	return TokenSource(m.store)
}

// TokenSource builds a token supplier over a bare store, for wiring the
// backend client before a Manager exists.
func TokenSource(store kvstore.Store) api.TokenSource {
	return func() string {
		s, found := kvstore.ReadJSON[model.Session](store, kvstore.KeyUserData)
		if !found || s.UserID == 0 || s.IsLocalOnly() {
			return ""
		}
		if token, ok := kvstore.ReadJSON[string](store, kvstore.KeyUserToken); ok && token != "" {
			return token
		}
		return s.AuthToken
	}
}

// hashPassword is the client-side stand-in for a real credential
// exchange: the backend stores whatever arrives in password_hash.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Register creates a backend account and caches the resulting session.
// When the backend call fails for any reason, a local-only session is
// synthesized instead so the app remains usable offline; the returned
// session's Kind tells the caller which path was taken.
func (m *Manager) Register(ctx context.Context, name, email, password, userType string) (*model.Session, error) {
	if name == "" || email == "" || password == "" {
		return nil, errors.Newf("name, email and password are required").
			Category(errors.CategoryValidation).
			Component("session").
			Build()
	}
	if userType == "" {
		userType = "user"
	}

	user, err := m.client.CreateUser(ctx, model.UserRegistration{
		Name:         name,
		Email:        email,
		PasswordHash: hashPassword(password),
		UserType:     userType,
	})
	if err != nil {
		serviceLogger().Warn("registration failed, creating local-only user",
			"email", email, "error", err)
		return m.registerLocalOnly(name, email, userType)
	}

	s := &model.Session{
		Kind:      model.SessionAuthenticated,
		UserID:    user.UserID,
		Name:      user.Name,
		Email:     user.Email,
		UserType:  user.UserType,
		AuthToken: fmt.Sprintf("token-%d", user.UserID),
		CreatedAt: model.NowISO(),
	}
	if err := m.persist(s); err != nil {
		return nil, err
	}
	serviceLogger().Info("user registered", "user_id", s.UserID, "email", s.Email)
	return s, nil
}

// registerLocalOnly synthesizes the offline fallback identity with a
// generated time-based numeric id. It carries no token and never
// authenticates against the backend.
func (m *Manager) registerLocalOnly(name, email, userType string) (*model.Session, error) {
	s := &model.Session{
		Kind:      model.SessionLocalOnly,
		UserID:    int(time.Now().Unix()),
		Name:      name,
		Email:     email,
		UserType:  userType,
		CreatedAt: model.NowISO(),
	}
	if err := m.persist(s); err != nil {
		return nil, err
	}
	serviceLogger().Info("local-only user created", "user_id", s.UserID, "email", s.Email)
	return s, nil
}

// Login matches email against the backend user list and caches the
// session. Password verification is a known gap carried over from the
// backend contract: there is no credential endpoint, so any password is
// accepted once the email matches.
func (m *Manager) Login(ctx context.Context, email, password string) (*model.Session, error) {
	if email == "" || password == "" {
		return nil, errors.Newf("email and password are required").
			Category(errors.CategoryValidation).
			Component("session").
			Build()
	}

	users, err := m.client.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	var match *model.User
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			match = &users[i]
			break
		}
	}
	if match == nil {
		return nil, errors.Newf("no account found for %s", email).
			Category(errors.CategoryNotFound).
			Context("email", email).
			Component("session").
			Build()
	}

	s := &model.Session{
		Kind:      model.SessionAuthenticated,
		UserID:    match.UserID,
		Name:      match.Name,
		Email:     match.Email,
		UserType:  match.UserType,
		AuthToken: fmt.Sprintf("token-%d", match.UserID),
		CreatedAt: model.NowISO(),
	}
	if err := m.persist(s); err != nil {
		return nil, err
	}
	serviceLogger().Info("user logged in", "user_id", s.UserID, "email", s.Email)
	return s, nil
}

// SignOut removes the cached session, token, photo collections and
// profile picture.
func (m *Manager) SignOut() error {
	keys := []string{
		kvstore.KeyUserData,
		kvstore.KeyUserToken,
		kvstore.KeyCapturedPhotos,
		kvstore.KeyPlantPhotos,
		kvstore.KeyProfilePic,
	}
	var errs []error
	for _, key := range keys {
		if err := m.store.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.New(errors.Join(errs...)).
			Category(errors.CategoryStorage).
			Component("session").
			Build()
	}
	serviceLogger().Info("signed out")
	return nil
}

func (m *Manager) persist(s *model.Session) error {
	if err := kvstore.WriteJSON(m.store, kvstore.KeyUserData, s); err != nil {
		return err
	}
	if s.Token() != "" {
		return kvstore.WriteJSON(m.store, kvstore.KeyUserToken, s.Token())
	}
	return nil
}
