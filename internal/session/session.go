// Package session binds an authenticated user to a signed browser cookie and
// carries one-shot flash messages between requests.
package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	cookieName = "cms_session"
	userIDKey  = "user_id"
)

// Manager reads and writes the session cookie
type Manager struct {
	store *sessions.CookieStore
}

// NewManager creates a manager whose cookies are signed with secret
func NewManager(secret []byte, maxAge int, secure bool) *Manager {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(maxAge)
	return &Manager{store: store}
}

// get never fails: a missing, expired or tampered cookie yields a fresh
// anonymous session.
func (m *Manager) get(r *http.Request) *sessions.Session {
	s, _ := m.store.Get(r, cookieName)
	return s
}

// UserID returns the user bound to the request's session
func (m *Manager) UserID(r *http.Request) (int64, bool) {
	id, ok := m.get(r).Values[userIDKey].(int64)
	return id, ok && id > 0
}

// Login binds userID to the session
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, userID int64) error {
	s := m.get(r)
	s.Values[userIDKey] = userID
	return s.Save(r, w)
}

// Logout drops the user binding. Calling it on an anonymous session is a no-op
// apart from refreshing the cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	s := m.get(r)
	delete(s.Values, userIDKey)
	return s.Save(r, w)
}

// AddFlash queues msg for the next page that renders flashes
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, msg string) error {
	s := m.get(r)
	s.AddFlash(msg)
	return s.Save(r, w)
}

// Flashes returns and clears queued messages
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []string {
	s := m.get(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save(r, w)

	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}
