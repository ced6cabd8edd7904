// Package session resolves who is looking at the dashboard.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"sports_dashboard/internal/domain"
)

// Session carries the viewer and the upstream credentials for one request or
// one scheduled pass.
type Session struct {
	Viewer domain.User
	Cookie string
	// Demo is set when the viewer could not be resolved upstream.
	Demo bool
	// AnonID identifies the browser of a demo session, if it has been issued one.
	AnonID string
}

// CartOwner is the id the viewer's cart is stored under. Demo sessions share
// one viewer, so their carts belong to the browser instead; without an AnonID
// there is no cart.
func (s *Session) CartOwner() string {
	if !s.Demo {
		return s.Viewer.ID
	}
	if s.AnonID == "" {
		return ""
	}
	return "anon-" + s.AnonID
}

type UserSource interface {
	CurrentUser(ctx context.Context, cookie string) (*domain.User, error)
}

type Manager struct {
	users  UserSource
	cache  *expirable.LRU[string, domain.User]
	logger *slog.Logger
}

func NewManager(users UserSource, size int, ttl time.Duration, logger *slog.Logger) *Manager {
	return &Manager{
		users:  users,
		cache:  expirable.NewLRU[string, domain.User](size, nil, ttl),
		logger: logger.With("component", "session"),
	}
}

// Resolve returns the session for cookie. It never fails: an anonymous
// request or an upstream error yields the demo viewer. Failed lookups are not
// cached.
func (m *Manager) Resolve(ctx context.Context, cookie string) *Session {
	if cookie == "" {
		return demo(cookie)
	}
	if u, ok := m.cache.Get(cookie); ok {
		return &Session{Viewer: u, Cookie: cookie}
	}

	u, err := m.users.CurrentUser(ctx, cookie)
	if err != nil {
		m.logger.Warn("current user unavailable, using demo viewer", "error", err)
		return demo(cookie)
	}

	m.cache.Add(cookie, *u)
	return &Session{Viewer: *u, Cookie: cookie}
}

// Forget drops a cached viewer so the next request resolves it again.
func (m *Manager) Forget(cookie string) {
	m.cache.Remove(cookie)
}

func demo(cookie string) *Session {
	return &Session{Viewer: domain.DemoUser, Cookie: cookie, Demo: true}
}
