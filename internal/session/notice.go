package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/atinyakov/flashcards/internal/models"
)

// NoticeCookieName is the name of the one-shot notice cookie.
const NoticeCookieName = "flashcards_notice"

// SetNotice stores n for the next rendered page. The cookie carries the
// same attributes as the session cookie.
func (m *Manager) SetNotice(w http.ResponseWriter, n models.Notice) {
	data, err := json.Marshal(n)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     NoticeCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopNotice returns the pending notice, if any, and clears it so it is
// shown only once. A corrupt cookie is cleared and ignored.
func (m *Manager) PopNotice(w http.ResponseWriter, r *http.Request) (models.Notice, bool) {
	cookie, err := r.Cookie(NoticeCookieName)
	if err != nil {
		return models.Notice{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     NoticeCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	data, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return models.Notice{}, false
	}
	var n models.Notice
	if err := json.Unmarshal(data, &n); err != nil || n.Message == "" {
		return models.Notice{}, false
	}
	return n, true
}
