// Package session ties login sessions in the session store to the browser
// cookie that carries their ID.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/utafrali/DogWalkGo/internal/domain"
	"github.com/utafrali/DogWalkGo/internal/repository"
	apperrors "github.com/utafrali/DogWalkGo/pkg/errors"
	"github.com/utafrali/DogWalkGo/pkg/logger"
	"github.com/utafrali/DogWalkGo/pkg/middleware"
)

const idBytes = 32

// Config controls the session cookie.
type Config struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager creates, resolves and destroys sessions.
type Manager struct {
	store   repository.SessionRepository
	cfg     Config
	metrics *Metrics
	now     func() time.Time
}

var _ middleware.IdentityResolver = (*Manager)(nil)

// NewManager creates a session manager. metrics may be nil. Store failures
// are logged with the request-scoped logger.
func NewManager(store repository.SessionRepository, cfg Config, metrics *Metrics) *Manager {
	return &Manager{
		store:   store,
		cfg:     cfg,
		metrics: metrics,
		now:     time.Now,
	}
}

// Start creates a session for user and sets the cookie. A session already
// carried by r is discarded first so a login always issues a fresh ID.
func (m *Manager) Start(w http.ResponseWriter, r *http.Request, user *domain.User) (*domain.Session, error) {
	ctx := r.Context()
	if old, ok := m.cookieID(r); ok {
		if err := m.store.Delete(ctx, old); err != nil {
			logger.FromContext(ctx).WarnContext(ctx, "failed to discard previous session", slog.String("error", err.Error()))
		}
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	s := &domain.Session{
		ID:        id,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(m.cfg.TTL),
	}
	if err := m.store.Save(ctx, s, m.cfg.TTL); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	m.metrics.created()

	http.SetCookie(w, m.cookie(id, int(m.cfg.TTL/time.Second)))
	return s, nil
}

// Destroy deletes the session behind r, if any, and clears the cookie. The
// cookie is cleared even when the store delete fails.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if id, ok := m.cookieID(r); ok {
		if err := m.store.Delete(ctx, id); err != nil {
			logger.FromContext(ctx).ErrorContext(ctx, "failed to delete session, clearing cookie anyway",
				slog.String("error", err.Error()),
			)
		}
		m.metrics.destroyed()
	}
	http.SetCookie(w, m.cookie("", -1))
}

// Resolve implements middleware.IdentityResolver. Requests without a live
// session resolve to nil; only store failures return an error.
func (m *Manager) Resolve(r *http.Request) (*middleware.Identity, error) {
	id, ok := m.cookieID(r)
	if !ok {
		return nil, nil
	}

	s, err := m.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			m.metrics.lookup(lookupMiss)
			return nil, nil
		}
		m.metrics.lookup(lookupError)
		return nil, err
	}
	if s.Expired(m.now()) {
		m.metrics.lookup(lookupExpired)
		return nil, nil
	}

	m.metrics.lookup(lookupHit)
	return &middleware.Identity{UserID: s.UserID, Username: s.Username, Role: s.Role}, nil
}

func (m *Manager) cookieID(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.cfg.CookieName)
	if err != nil || !validID(c.Value) {
		return "", false
	}
	return c.Value, true
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func newID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// validID rejects cookie values that could not have been issued by newID.
func validID(v string) bool {
	if len(v) != base64.RawURLEncoding.EncodedLen(idBytes) {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(v)
	return err == nil
}
