// Package http provides the HTML handlers and routing for the flashcards
// web application.
package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/atinyakov/flashcards/internal/models"
	"github.com/atinyakov/flashcards/internal/service"
	"go.uber.org/zap"
)

// AuthService defines the credential check required by the AuthHandler.
type AuthService interface {
	// Login returns service.ErrInvalidCredentials when the pair does not match.
	Login(username, password string) error
}

// SessionStore issues and clears the admin session cookie.
type SessionStore interface {
	Issue(w http.ResponseWriter, username string) (string, error)
	Clear(w http.ResponseWriter)
	IsAdmin(r *http.Request) bool
}

// AuthHandler handles admin login and logout.
type AuthHandler struct {
	AuthService AuthService
	Sessions    SessionStore
	Renderer    *Renderer
	Logger      *zap.Logger
}

// LoginForm handles GET /admin/login.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, r, http.StatusOK, "login", PageData{Title: "Admin login"})
}

// Login handles POST /admin/login. On success it starts an admin session
// and redirects to /admin; otherwise it redisplays the form with a notice.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if err := h.AuthService.Login(username, password); err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.Renderer.ServerError(w, r, err)
			return
		}
		h.Logger.Warn("admin login failed", zap.String("username", username))
		h.Renderer.Render(w, r, http.StatusOK, "login", PageData{
			Title:    "Admin login",
			Username: username,
			Notice:   &models.Notice{Level: models.LevelDanger, Message: "Invalid username or password."},
		})
		return
	}

	sessionID, err := h.Sessions.Issue(w, strings.TrimSpace(username))
	if err != nil {
		h.Renderer.ServerError(w, r, err)
		return
	}
	h.Logger.Info("admin logged in", zap.String("session_id", sessionID))
	h.Renderer.Redirect(w, r, "/admin", models.LevelSuccess, "Logged in.")
}

// Logout handles GET /admin/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	h.Renderer.Redirect(w, r, "/", models.LevelInfo, "Logged out.")
}
