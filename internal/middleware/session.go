// Package middleware provides HTTP middlewares for admin authentication and
// request logging.
package middleware

import (
	"context"
	"net/http"

	"github.com/atinyakov/flashcards/internal/models"
)

type ctxKey string

const adminKey ctxKey = "admin"

// LoginPath is where RequireAdmin sends anonymous callers.
const LoginPath = "/admin/login"

// LoginRequiredMessage is the notice shown after RequireAdmin redirects.
const LoginRequiredMessage = "Please log in as administrator first."

// SessionVerifier reports whether a request carries a valid admin session.
type SessionVerifier interface {
	IsAdmin(r *http.Request) bool
}

// NoticeSetter stores a one-shot notice for the next rendered page.
type NoticeSetter interface {
	SetNotice(w http.ResponseWriter, n models.Notice)
}

// LoadSession resolves the admin flag once per request and stores it in the
// request context, so handlers and templates never consult global state.
func LoadSession(v SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithAdmin(r.Context(), v.IsAdmin(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin lets the request through only when the context carries an
// admin session. Otherwise it redirects to LoginPath with a warning notice
// and the wrapped handler never runs.
func RequireAdmin(notices NoticeSetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(r.Context()) {
				notices.SetNotice(w, models.Notice{Level: models.LevelWarning, Message: LoginRequiredMessage})
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithAdmin returns a copy of ctx carrying the admin flag.
func WithAdmin(ctx context.Context, admin bool) context.Context {
	return context.WithValue(ctx, adminKey, admin)
}

// IsAdmin extracts the admin flag from ctx. It is false when unset.
func IsAdmin(ctx context.Context) bool {
	admin, _ := ctx.Value(adminKey).(bool)
	return admin
}
