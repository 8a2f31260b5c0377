// Package sessions implements server-side sessions correlated to clients by
// a signed cookie. Session records are persisted through a Store; the cookie
// carries only the session ID and an HMAC signature over it.
package sessions

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/dkorolev/playsave/internal/models"
	"go.uber.org/zap"
)

// CookieName is the name of the session cookie.
const CookieName = "sid"

// Store abstracts session persistence. Implementations must be safe for
// concurrent use.
type Store interface {
	// Save creates or refreshes a session record.
	Save(ctx context.Context, session *models.Session) error
	// Load fetches a session by ID, or (nil, nil) when missing or expired.
	Load(ctx context.Context, id string) (*models.Session, error)
	// Delete removes a session by ID.
	Delete(ctx context.Context, id string) error
}

// State is the mutable per-request view of a session. Handlers mutate it;
// the middleware persists it after the handler only if it was modified, so
// anonymous requests never write to the store.
type State struct {
	session  models.Session
	modified bool
}

// UserID returns the authenticated user's ID, or 0 for anonymous sessions.
func (s *State) UserID() int64 {
	return s.session.UserID
}

// Authenticated reports whether the session belongs to a logged-in user.
func (s *State) Authenticated() bool {
	return s.session.Authenticated()
}

// Authenticate binds the session to a user and marks it for persistence.
func (s *State) Authenticate(userID int64) {
	s.session.UserID = userID
	s.modified = true
}

// Modified reports whether the session must be written back.
func (s *State) Modified() bool {
	return s.modified
}

// Manager loads session state from signed cookies and commits modified
// state back to the store and the response.
type Manager struct {
	store      Store
	signingKey []byte
	ttl        time.Duration
	log        *zap.Logger
}

// NewManager creates a Manager. signingSecret signs the cookie value and
// must be distinct from the store's payload-encryption secret. ttl bounds
// the cookie lifetime and the store record's expiry.
func NewManager(store Store, signingSecret string, ttl time.Duration, log *zap.Logger) *Manager {
	return &Manager{
		store:      store,
		signingKey: []byte(signingSecret),
		ttl:        ttl,
		log:        log,
	}
}

// Load resolves the request's session cookie to a State. A missing cookie,
// a bad signature or an unknown session ID all yield a fresh anonymous
// state; store failures are logged and also degrade to anonymous so a
// session outage never blocks unauthenticated endpoints.
func (m *Manager) Load(r *http.Request) *State {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return &State{}
	}

	id, ok := m.verify(cookie.Value)
	if !ok {
		return &State{}
	}

	session, err := m.store.Load(r.Context(), id)
	if err != nil {
		m.log.Error("failed to load session", zap.Error(err))
		return &State{}
	}
	if session == nil {
		return &State{}
	}

	return &State{session: *session}
}

// Commit persists a modified State and sets the signed session cookie.
// It must run before the response status is written. Unmodified state is a
// no-op, so sessions are created lazily on first write.
func (m *Manager) Commit(w http.ResponseWriter, r *http.Request, state *State) error {
	if !state.modified {
		return nil
	}

	if state.session.ID == "" {
		id, err := newSessionID()
		if err != nil {
			return err
		}
		state.session.ID = id
	}

	if err := m.store.Save(r.Context(), &state.session); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    m.sign(state.session.ID),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
		MaxAge:   int(m.ttl / time.Second),
	})
	return nil
}

// sign returns "<id>.<base64url HMAC-SHA256(id)>".
func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.signingKey)
	mac.Write([]byte(id))
	return id + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// verify checks a cookie value produced by sign and returns the session ID.
func (m *Manager) verify(value string) (string, bool) {
	id, sig, found := strings.Cut(value, ".")
	if !found || id == "" {
		return "", false
	}

	want, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", false
	}

	mac := hmac.New(sha256.New, m.signingKey)
	mac.Write([]byte(id))
	if subtle.ConstantTimeCompare(mac.Sum(nil), want) != 1 {
		return "", false
	}
	return id, true
}

// newSessionID returns 256 bits of entropy, base64url encoded.
func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
