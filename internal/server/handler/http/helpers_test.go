package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atinyakov/flashcards/internal/models"
	"github.com/atinyakov/flashcards/internal/session"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	return newTestRendererWith(t, session.NewManager("test-secret", time.Hour))
}

func newTestRendererWith(t *testing.T, notices NoticeStore) *Renderer {
	t.Helper()
	rd, err := NewRenderer(zap.NewNop(), notices)
	require.NoError(t, err)
	return rd
}

// noticeFrom decodes the notice cookie set on rec, if any.
func noticeFrom(t *testing.T, rec *httptest.ResponseRecorder) (models.Notice, bool) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.NoticeCookieName && c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}
	return session.NewManager("test-secret", time.Hour).PopNotice(httptest.NewRecorder(), req)
}

// multipartBody builds an upload form with field name holding content.
func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("other", "value"))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}
