package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/atinyakov/flashcards/internal/middleware"
	"github.com/atinyakov/flashcards/internal/models"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"index", "admin", "login", "error"}

// PageData is the view model shared by every page.
type PageData struct {
	Title   string
	IsAdmin bool
	Notice  *models.Notice
	Cards   []models.Flashcard
	// Username refills the login form after a failed attempt.
	Username string
	// Message is the body of the error page.
	Message string
}

// NoticeStore carries one-shot notices across a redirect.
type NoticeStore interface {
	SetNotice(w http.ResponseWriter, n models.Notice)
	PopNotice(w http.ResponseWriter, r *http.Request) (models.Notice, bool)
}

// Renderer executes the embedded HTML templates.
type Renderer struct {
	pages   map[string]*template.Template
	notices NoticeStore
	log     *zap.Logger
}

var templateFuncs = template.FuncMap{
	"ago": func(t time.Time) string { return humanize.Time(t) },
	"count": func(n int) string {
		return humanize.Comma(int64(n))
	},
	"stamp": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04") },
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer(log *zap.Logger, notices NoticeStore) (*Renderer, error) {
	rd := &Renderer{
		pages:   make(map[string]*template.Template, len(pageNames)),
		notices: notices,
		log:     log,
	}
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		rd.pages[name] = tmpl
	}
	return rd, nil
}

// Render writes page with status. The admin flag comes from the request
// context; a pending notice is consumed unless data already carries one.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data PageData) {
	tmpl, ok := rd.pages[page]
	if !ok {
		rd.log.Error("unknown template", zap.String("page", page))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data.IsAdmin = middleware.IsAdmin(r.Context())
	if data.Notice == nil {
		if n, ok := rd.notices.PopNotice(w, r); ok {
			data.Notice = &n
		}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		rd.log.Error("render template", zap.String("page", page), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// NotFound renders the error page with 404.
func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rd.Render(w, r, http.StatusNotFound, "error", PageData{
		Title:   "Not found",
		Message: "The requested page or flashcard does not exist.",
	})
}

// ServerError logs err and renders the error page with 500.
func (rd *Renderer) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	rd.log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	rd.Render(w, r, http.StatusInternalServerError, "error", PageData{
		Title:   "Error",
		Message: "Something went wrong. Please try again.",
	})
}

// Redirect stores a notice for the next page and redirects with 303.
func (rd *Renderer) Redirect(w http.ResponseWriter, r *http.Request, path string, level models.NoticeLevel, message string) {
	rd.notices.SetNotice(w, models.Notice{Level: level, Message: message})
	http.Redirect(w, r, path, http.StatusSeeOther)
}
