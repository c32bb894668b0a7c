// Package httpserver carries the HTTP-level concerns of the console API:
// the composition session cookie and operator authentication.
package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const (
	defaultCookieName = "pos_session"
	defaultCookiePath = "/"
	defaultLifetime   = 12 * time.Hour
)

// ErrNoSession indicates the request carries no usable session cookie.
var ErrNoSession = errors.New("httpserver: no session")

// ErrInvalidCookieConfig indicates the cookie manager was initialised with
// missing or invalid options.
var ErrInvalidCookieConfig = errors.New("httpserver: invalid cookie config")

// cookiePayload is what actually travels in the cookie: a reference to the
// server-side composition session, never the session content itself.
type cookiePayload struct {
	SessionID string    `json:"sid"`
	IssuedAt  time.Time `json:"iat"`
}

// CookieConfig controls encoding and lifecycle of the session cookie.
type CookieConfig struct {
	CookieName   string
	HashKey      []byte
	BlockKey     []byte
	CookiePath   string
	CookieDomain string
	CookieSecure bool
	Lifetime     time.Duration
	Now          func() time.Time
}

// CookieManager reads and writes the signed session-reference cookie.
type CookieManager struct {
	cfg   CookieConfig
	codec *securecookie.SecureCookie
	now   func() time.Time
}

// NewCookieManager constructs a CookieManager using the provided configuration.
func NewCookieManager(cfg CookieConfig) (*CookieManager, error) {
	if len(cfg.HashKey) == 0 {
		return nil, fmt.Errorf("%w: hash key is required", ErrInvalidCookieConfig)
	}
	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = defaultCookiePath
	}
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = defaultLifetime
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	codec := securecookie.New(cfg.HashKey, cfg.BlockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(cfg.Lifetime / time.Second))

	return &CookieManager{cfg: cfg, codec: codec, now: cfg.Now}, nil
}

// SessionID extracts the referenced session ID from the request cookie.
// Missing, undecodable or outlived cookies return ErrNoSession; callers then
// start a fresh session.
func (m *CookieManager) SessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil {
		return "", ErrNoSession
	}
	var payload cookiePayload
	if err := m.codec.Decode(m.cfg.CookieName, cookie.Value, &payload); err != nil {
		return "", ErrNoSession
	}
	if payload.SessionID == "" {
		return "", ErrNoSession
	}
	if m.now().UTC().Sub(payload.IssuedAt) > m.cfg.Lifetime {
		return "", ErrNoSession
	}
	return payload.SessionID, nil
}

// Issue writes a cookie referencing the given session ID.
func (m *CookieManager) Issue(w http.ResponseWriter, sessionID string) error {
	if sessionID == "" {
		return errors.New("httpserver: empty session id")
	}
	now := m.now().UTC()
	encoded, err := m.codec.Encode(m.cfg.CookieName, cookiePayload{
		SessionID: sessionID,
		IssuedAt:  now,
	})
	if err != nil {
		return fmt.Errorf("httpserver: encode session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    encoded,
		Path:     m.cfg.CookiePath,
		Domain:   m.cfg.CookieDomain,
		Secure:   m.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  now.Add(m.cfg.Lifetime),
		MaxAge:   int(m.cfg.Lifetime / time.Second),
	})
	return nil
}

// Clear expires the cookie immediately.
func (m *CookieManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     m.cfg.CookiePath,
		Domain:   m.cfg.CookieDomain,
		Secure:   m.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
