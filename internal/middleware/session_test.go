package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atinyakov/flashcards/internal/session"
)

// dummyHandler is a placeholder that records if it was called and the context it received.
type dummyHandler struct {
	called bool
	ctx    context.Context
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	d.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

type stubVerifier bool

func (s stubVerifier) IsAdmin(*http.Request) bool { return bool(s) }

func newNotices() *session.Manager {
	return session.NewManager("secret", time.Hour)
}

func TestRequireAdmin_Anonymous(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			dummy := &dummyHandler{}
			h := LoadSession(stubVerifier(false))(RequireAdmin(newNotices())(dummy))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(method, "/admin/add", nil)
			h.ServeHTTP(rec, req)

			if dummy.called {
				t.Error("did not expect next handler to be called without admin session")
			}
			if rec.Code != http.StatusSeeOther {
				t.Errorf("expected 303, got %d", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != LoginPath {
				t.Errorf("expected redirect to %s, got %q", LoginPath, loc)
			}

			var found bool
			for _, c := range rec.Result().Cookies() {
				if c.Name == session.NoticeCookieName {
					found = true
				}
			}
			if !found {
				t.Error("expected a login-required notice cookie")
			}
		})
	}
}

func TestRequireAdmin_Admin(t *testing.T) {
	dummy := &dummyHandler{}
	h := LoadSession(stubVerifier(true))(RequireAdmin(newNotices())(dummy))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	h.ServeHTTP(rec, req)

	if !dummy.called {
		t.Fatal("expected next handler to be called for admin")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 OK, got %d", rec.Code)
	}
	if !IsAdmin(dummy.ctx) {
		t.Error("expected admin flag in context")
	}
}

func TestRequireAdmin_WithoutLoadSession(t *testing.T) {
	dummy := &dummyHandler{}
	rec := httptest.NewRecorder()
	RequireAdmin(newNotices())(dummy).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/delete/1", nil))

	if dummy.called {
		t.Error("missing session information must be treated as anonymous")
	}
}

func TestIsAdminFromContext(t *testing.T) {
	if IsAdmin(context.Background()) {
		t.Error("expected false for empty context")
	}
	if !IsAdmin(WithAdmin(context.Background(), true)) {
		t.Error("expected true after WithAdmin(true)")
	}
	if IsAdmin(WithAdmin(context.Background(), false)) {
		t.Error("expected false after WithAdmin(false)")
	}
}

func TestRequireAdmin_NoticeFollowsSecure(t *testing.T) {
	notices := newNotices()
	notices.Secure = true
	dummy := &dummyHandler{}
	h := LoadSession(stubVerifier(false))(RequireAdmin(notices)(dummy))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/clear", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != session.NoticeCookieName {
		t.Fatalf("expected one notice cookie, got %v", cookies)
	}
	if !cookies[0].Secure {
		t.Error("expected notice cookie to be Secure when sessions are")
	}
}
