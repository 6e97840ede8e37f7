package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/segmentio/ksuid"
)

const CookieName = "paylink_session"

// Manager owns the session cookie and the Store behind it. The cookie
// value is the session id wrapped in an HS256 JWS, so a tampered
// cookie is indistinguishable from a missing one.
type Manager struct {
	store   Store
	signKey []byte
	maxAge  time.Duration
	secure  bool
}

func NewManager(store Store, secret string, maxAge time.Duration, secure bool) *Manager {
	return &Manager{
		store:   store,
		signKey: []byte(secret),
		maxAge:  maxAge,
		secure:  secure,
	}
}

// Session is a loaded session bound to its manager. Mutate Data and
// call Save to persist.
type Session struct {
	ID   string
	Data Data
	mgr  *Manager
}

func (s *Session) Save(ctx context.Context) error {
	return s.mgr.store.Save(ctx, s.ID, &s.Data)
}

// Load returns the session for the request cookie, creating a fresh
// one when the cookie is absent, unverifiable or references nothing
// in the store. Store failures other than a miss propagate.
func (m *Manager) Load(c echo.Context) (*Session, error) {
	id, ok := m.sessionID(c)
	if !ok {
		return m.issue(c)
	}

	data, err := m.store.Get(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		// The cookie is authentic but nothing is stored yet, e.g.
		// right after a regenerate. Keep the id, start empty.
		return &Session{ID: id, mgr: m}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	return &Session{ID: id, Data: *data, mgr: m}, nil
}

// Regenerate discards any current session state and issues a new
// session id, as at the start of a payment initiation.
func (m *Manager) Regenerate(c echo.Context) (*Session, error) {
	if id, ok := m.sessionID(c); ok {
		if err := m.store.Delete(c.Request().Context(), id); err != nil {
			return nil, fmt.Errorf("regenerate session: %w", err)
		}
	}
	return m.issue(c)
}

// Destroy removes the session state and expires the cookie.
func (m *Manager) Destroy(c echo.Context) error {
	if id, ok := m.sessionID(c); ok {
		if err := m.store.Delete(c.Request().Context(), id); err != nil {
			return fmt.Errorf("destroy session: %w", err)
		}
	}

	cookie := m.newCookie("")
	cookie.MaxAge = -1
	c.SetCookie(cookie)
	return nil
}

func (m *Manager) issue(c echo.Context) (*Session, error) {
	id := ksuid.New().String()

	signed, err := jws.Sign([]byte(id), jws.WithKey(jwa.HS256, m.signKey))
	if err != nil {
		return nil, fmt.Errorf("sign session cookie: %w", err)
	}

	c.SetCookie(m.newCookie(string(signed)))
	return &Session{ID: id, mgr: m}, nil
}

// sessionID extracts and verifies the session id from the request
// cookie. A missing or tampered cookie yields ok == false.
func (m *Manager) sessionID(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	payload, err := jws.Verify([]byte(cookie.Value), jws.WithKey(jwa.HS256, m.signKey))
	if err != nil {
		return "", false
	}
	return string(payload), true
}

func (m *Manager) newCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
	}
}
