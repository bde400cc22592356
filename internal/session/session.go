// Package session carries the signed-in commander and any pending password
// reset in an HttpOnly cookie holding an HS256 JWT.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mission-control/internal/config"
	"mission-control/internal/services"
)

// Session is the per-browser state
type Session struct {
	Username      string               `json:"username,omitempty"`
	Authenticated bool                 `json:"authenticated"`
	Reset         *services.ResetGrant `json:"reset,omitempty"`
}

// Anonymous reports whether nobody is signed in
func (s Session) Anonymous() bool {
	return !s.Authenticated || s.Username == ""
}

type claims struct {
	Session
	jwt.RegisteredClaims
}

// Options configures a Manager
type Options struct {
	CookieName string
	Secret     []byte
	Secure     bool
	TTL        time.Duration
}

// OptionsFromConfig builds Options from the server section
func OptionsFromConfig(cfg *config.Config, secret []byte) Options {
	return Options{
		CookieName: cfg.Server.CookieName,
		Secret:     secret,
		Secure:     cfg.Server.CookieSecure,
		TTL:        cfg.Server.SessionTTL,
	}
}

// Manager reads and writes the session cookie
type Manager struct {
	opts Options
	now  func() time.Time
}

const issuer = "mission-control"

// NewManager creates a Manager. The secret must not be empty.
func NewManager(opts Options) (*Manager, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("session secret is required")
	}
	if opts.CookieName == "" {
		opts.CookieName = "mc_session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 12 * time.Hour
	}
	return &Manager{opts: opts, now: time.Now}, nil
}

// Issue signs s and sets it as the session cookie
func (m *Manager) Issue(w http.ResponseWriter, s Session) error {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Session: s,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.opts.TTL)),
		},
	})
	signed, err := token.SignedString(m.opts.Secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	http.SetCookie(w, m.cookie(signed, now.Add(m.opts.TTL), int(m.opts.TTL.Seconds())))
	return nil
}

// Load returns the session carried by r. A missing, tampered or expired
// cookie yields an anonymous session.
func (m *Manager) Load(r *http.Request) Session {
	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return Session{}
	}

	var c claims
	_, err = jwt.ParseWithClaims(cookie.Value, &c, func(t *jwt.Token) (interface{}, error) {
		return m.opts.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Session{}
	}
	return c.Session
}

// Clear expires the session cookie
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", time.Unix(0, 0), -1))
}

func (m *Manager) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
