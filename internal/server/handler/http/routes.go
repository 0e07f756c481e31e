package http

import (
	"net/http"

	"github.com/atinyakov/flashcards/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP handler that serves the flashcards site.
//
// Routes:
//
//	GET  /health              → "OK"
//	GET  /                    → flashcardHandler.Index
//	GET  /admin/login         → authHandler.LoginForm
//	POST /admin/login         → authHandler.Login
//	GET  /admin/logout        → authHandler.Logout
//	GET  /admin               → flashcardHandler.Admin   (admin only)
//	POST /admin/add           → flashcardHandler.Add     (admin only)
//	POST /admin/upload        → flashcardHandler.Upload  (admin only)
//	POST /admin/delete/{id}   → flashcardHandler.Delete  (admin only)
//	POST /admin/clear         → flashcardHandler.Clear   (admin only)
//	GET  /admin/export        → flashcardHandler.Export  (admin only)
//
// The session is resolved before logging so the request log records
// whether the caller was an admin.
func NewRouter(
	authHandler *AuthHandler,
	flashcardHandler *FlashcardHandler,
	renderer *Renderer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.LoadSession(authHandler.Sessions))
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)

	r.NotFound(renderer.NotFound)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/", flashcardHandler.Index)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", authHandler.LoginForm)
		r.Post("/login", authHandler.Login)
		r.Get("/logout", authHandler.Logout)

		// Protected group: requires an admin session
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(renderer.notices))
			r.Get("/", flashcardHandler.Admin)
			r.Post("/add", flashcardHandler.Add)
			r.Post("/upload", flashcardHandler.Upload)
			r.Post("/delete/{id}", flashcardHandler.Delete)
			r.Post("/clear", flashcardHandler.Clear)
			r.Get("/export", flashcardHandler.Export)
		})
	})

	return r
}
