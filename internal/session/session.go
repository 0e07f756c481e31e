// Package session issues and verifies the admin session cookie and carries
// one-shot notices between a redirect and the next rendered page.
//
// The admin session is a stateless HS256 JWT stored in an HttpOnly cookie.
// A request without a valid, unexpired token is anonymous.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the name of the admin session cookie.
const CookieName = "flashcards_session"

// ErrInvalidSession is returned when the session cookie is missing,
// malformed, badly signed or expired.
var ErrInvalidSession = errors.New("invalid session")

// Claims are the JWT claims stored in the session cookie.
type Claims struct {
	// Admin is the session flag.
	Admin bool `json:"adm"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session cookies.
type Manager struct {
	secret []byte
	ttl    time.Duration
	// Secure marks cookies as HTTPS-only.
	Secure bool
	// Now is the clock used for issuing and validating tokens.
	Now func() time.Time
}

// NewManager returns a Manager signing with secret. Sessions expire after ttl.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, Now: time.Now}
}

// Issue writes a fresh admin session cookie for username and returns the
// session id.
func (m *Manager) Issue(w http.ResponseWriter, username string) (string, error) {
	now := m.Now()
	id := uuid.NewString()
	claims := Claims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(m.ttl),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id, nil
}

// Parse returns the claims of the request's session cookie.
func (m *Manager) Parse(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrInvalidSession
	}

	var claims Claims
	_, err = jwt.ParseWithClaims(cookie.Value, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return &claims, nil
}

// IsAdmin reports whether r carries a valid admin session.
func (m *Manager) IsAdmin(r *http.Request) bool {
	claims, err := m.Parse(r)
	return err == nil && claims.Admin
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
