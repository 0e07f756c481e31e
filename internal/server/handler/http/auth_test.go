package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/atinyakov/flashcards/internal/models"
	"github.com/atinyakov/flashcards/internal/service"
	"github.com/atinyakov/flashcards/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	err      error
	username string
	password string
}

func (f *fakeAuthService) Login(username, password string) error {
	f.username, f.password = username, password
	return f.err
}

// fakeSessions implements SessionStore for testing.
type fakeSessions struct {
	issuedFor string
	issueErr  error
	cleared   bool
}

func (f *fakeSessions) Issue(w http.ResponseWriter, username string) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	f.issuedFor = username
	return "session-id", nil
}

func (f *fakeSessions) Clear(http.ResponseWriter) { f.cleared = true }

func (f *fakeSessions) IsAdmin(*http.Request) bool { return f.issuedFor != "" }

func newAuthHandler(t *testing.T, svc *fakeAuthService, sessions *fakeSessions) *AuthHandler {
	return &AuthHandler{
		AuthService: svc,
		Sessions:    sessions,
		Renderer:    newTestRenderer(t),
		Logger:      zap.NewNop(),
	}
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestAuthHandler_LoginForm(t *testing.T) {
	h := newAuthHandler(t, &fakeAuthService{}, &fakeSessions{})
	rec := httptest.NewRecorder()

	h.LoginForm(rec, httptest.NewRequest(http.MethodGet, "/admin/login", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="password"`)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		service        *fakeAuthService
		sessions       *fakeSessions
		expectedCode   int
		expectedSubstr string
		expectedIssued string
		expectedNotice *models.Notice
	}{
		{
			name:           "bad credentials",
			service:        &fakeAuthService{err: service.ErrInvalidCredentials},
			sessions:       &fakeSessions{},
			expectedCode:   http.StatusOK,
			expectedSubstr: "Invalid username or password.",
		},
		{
			name:         "service failure",
			service:      &fakeAuthService{err: errors.New("boom")},
			sessions:     &fakeSessions{},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "issue failure",
			service:      &fakeAuthService{},
			sessions:     &fakeSessions{issueErr: errors.New("sign")},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:           "success",
			service:        &fakeAuthService{},
			sessions:       &fakeSessions{},
			expectedCode:   http.StatusSeeOther,
			expectedIssued: "admin",
			expectedNotice: &models.Notice{Level: models.LevelSuccess, Message: "Logged in."},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newAuthHandler(t, tc.service, tc.sessions)
			rec := httptest.NewRecorder()

			h.Login(rec, postForm("/admin/login", url.Values{"username": {" admin "}, "password": {"secret"}}))

			assert.Equal(t, tc.expectedCode, rec.Code)
			if tc.expectedSubstr != "" {
				assert.Contains(t, rec.Body.String(), tc.expectedSubstr)
			}
			assert.Equal(t, tc.expectedIssued, tc.sessions.issuedFor)
			assert.Equal(t, "secret", tc.service.password)

			notice, ok := noticeFrom(t, rec)
			if tc.expectedNotice == nil {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, *tc.expectedNotice, notice)
			assert.Equal(t, "/admin", rec.Header().Get("Location"))
		})
	}
}

func TestAuthHandler_LoginFailureRefillsUsername(t *testing.T) {
	h := newAuthHandler(t, &fakeAuthService{err: service.ErrInvalidCredentials}, &fakeSessions{})
	rec := httptest.NewRecorder()

	h.Login(rec, postForm("/admin/login", url.Values{"username": {"bob"}, "password": {"x"}}))

	assert.Contains(t, rec.Body.String(), `value="bob"`)
}

func TestAuthHandler_Logout(t *testing.T) {
	sessions := &fakeSessions{}
	h := newAuthHandler(t, &fakeAuthService{}, sessions)
	rec := httptest.NewRecorder()

	h.Logout(rec, httptest.NewRequest(http.MethodGet, "/admin/logout", nil))

	assert.True(t, sessions.cleared)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	notice, ok := noticeFrom(t, rec)
	require.True(t, ok)
	assert.Equal(t, models.LevelInfo, notice.Level)
}

func TestAuthHandler_NoticeCookieFollowsSessionSecurity(t *testing.T) {
	notices := session.NewManager("test-secret", time.Hour)
	notices.Secure = true
	h := &AuthHandler{
		AuthService: &fakeAuthService{},
		Sessions:    &fakeSessions{},
		Renderer:    newTestRendererWith(t, notices),
		Logger:      zap.NewNop(),
	}
	rec := httptest.NewRecorder()

	h.Logout(rec, httptest.NewRequest(http.MethodGet, "/admin/logout", nil))

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.NoticeCookieName {
			found = true
			assert.True(t, c.Secure)
		}
	}
	assert.True(t, found)
}
