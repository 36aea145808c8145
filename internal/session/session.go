package session

import (
	"context"
	"errors"
	"strings"

	"github.com/pedrolucas/crimson/internal/repository"
)

// AuthAPI is the account-facing slice of the item management API.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, name, email, password, confirmation string) (token, message string, err error)
}

// Manager owns the session lifecycle: it exchanges credentials for a
// token, persists it in the local store and tears it down on logout.
type Manager struct {
	api   AuthAPI
	store repository.SessionRepository
}

// NewManager creates a session manager.
func NewManager(api AuthAPI, store repository.SessionRepository) *Manager {
	return &Manager{api: api, store: store}
}

// LoggedIn reports whether a token is currently stored.
func (m *Manager) LoggedIn() bool {
	token, err := m.store.Token()
	return err == nil && token != ""
}

// Login validates the credentials locally, exchanges them with the
// server and persists the returned token.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return errors.New("email and password are required")
	}

	token, err := m.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return m.store.Save(token)
}

// Register checks the form locally before submitting, mirroring the
// server's own rules so obvious mistakes never leave the device. When
// the server hands back a token it is stored right away.
func (m *Manager) Register(ctx context.Context, name, email, password, confirmation string) (string, error) {
	switch {
	case strings.TrimSpace(name) == "",
		strings.TrimSpace(email) == "",
		password == "",
		confirmation == "":
		return "", errors.New("all fields are required")
	case len(password) < 8:
		return "", errors.New("password must be at least 8 characters")
	case password != confirmation:
		return "", errors.New("passwords do not match")
	}

	token, message, err := m.api.Register(ctx, name, email, password, confirmation)
	if err != nil {
		return "", err
	}
	if token != "" {
		if err := m.store.Save(token); err != nil {
			return "", err
		}
	}
	if message == "" {
		message = "account created"
	}
	return message, nil
}

// Logout deletes the stored token.
func (m *Manager) Logout() error {
	return m.store.Clear()
}
