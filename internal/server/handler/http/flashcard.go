package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/atinyakov/flashcards/internal/importer"
	"github.com/atinyakov/flashcards/internal/models"
	"github.com/atinyakov/flashcards/internal/repository"
	"github.com/atinyakov/flashcards/internal/service"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FlashcardService defines the flashcard operations required by the
// FlashcardHandler.
type FlashcardService interface {
	Add(ctx context.Context, expression, explanation string) (*models.Flashcard, error)
	List(ctx context.Context) ([]models.Flashcard, error)
	Delete(ctx context.Context, id int64) error
	Import(ctx context.Context, raw []byte) (int, error)
	Clear(ctx context.Context) (int64, error)
}

// FlashcardHandler serves the public list and the admin management pages.
type FlashcardHandler struct {
	Service  FlashcardService
	Renderer *Renderer
	Logger   *zap.Logger
	// MaxUploadBytes caps the request body of an upload.
	MaxUploadBytes int64
	// Now stamps export file names. It defaults to time.Now.
	Now func() time.Time
}

// Index handles GET /: every card, newest first.
func (h *FlashcardHandler) Index(w http.ResponseWriter, r *http.Request) {
	cards, err := h.Service.List(r.Context())
	if err != nil {
		h.Renderer.ServerError(w, r, err)
		return
	}
	h.Renderer.Render(w, r, http.StatusOK, "index", PageData{Title: "Flashcards", Cards: cards})
}

// Admin handles GET /admin: the management view.
func (h *FlashcardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	cards, err := h.Service.List(r.Context())
	if err != nil {
		h.Renderer.ServerError(w, r, err)
		return
	}
	h.Renderer.Render(w, r, http.StatusOK, "admin", PageData{Title: "Manage flashcards", Cards: cards})
}

// Add handles POST /admin/add.
func (h *FlashcardHandler) Add(w http.ResponseWriter, r *http.Request) {
	card, err := h.Service.Add(r.Context(), r.PostFormValue("expression"), r.PostFormValue("explanation"))
	if errors.Is(err, service.ErrValidation) {
		h.Renderer.Redirect(w, r, "/admin", models.LevelWarning, "Expression and explanation are required.")
		return
	}
	if err != nil {
		h.Renderer.ServerError(w, r, err)
		return
	}
	h.Logger.Info("flashcard added", zap.Int64("id", card.ID))
	h.Renderer.Redirect(w, r, "/admin", models.LevelSuccess, "Card added.")
}

// Upload handles POST /admin/upload with a multipart tsv_file field.
func (h *FlashcardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}

	file, header, err := r.FormFile("tsv_file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Renderer.Redirect(w, r, "/admin", models.LevelWarning, "The file is too large.")
			return
		}
		h.Renderer.Redirect(w, r, "/admin", models.LevelWarning, "Please choose a TSV file.")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		h.Renderer.Redirect(w, r, "/admin", models.LevelWarning, "Please choose a TSV file.")
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		h.Renderer.ServerError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	created, err := h.Service.Import(r.Context(), raw)
	switch {
	case errors.Is(err, importer.ErrDecode):
		h.Renderer.Redirect(w, r, "/admin", models.LevelDanger, "Could not read the file. Make sure it is UTF-8 encoded.")
	case errors.Is(err, importer.ErrEmptyInput):
		h.Renderer.Redirect(w, r, "/admin", models.LevelWarning, "The TSV file is empty.")
	case errors.Is(err, importer.ErrNoValidRows):
		h.Renderer.Redirect(w, r, "/admin", models.LevelInfo, "No valid rows to import.")
	case err != nil:
		h.Renderer.ServerError(w, r, err)
	default:
		h.Logger.Info("flashcards imported",
			zap.String("file", header.Filename),
			zap.Int("created", created),
		)
		h.Renderer.Redirect(w, r, "/admin", models.LevelSuccess,
			fmt.Sprintf("Added %s records.", humanize.Comma(int64(created))))
	}
}

// Delete handles POST /admin/delete/{id}. Unknown or malformed ids get 404.
func (h *FlashcardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.Renderer.NotFound(w, r)
		return
	}

	err = h.Service.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.Renderer.NotFound(w, r)
		return
	}
	if err != nil {
		h.Renderer.ServerError(w, r, err)
		return
	}
	h.Logger.Info("flashcard deleted", zap.Int64("id", id))
	h.Renderer.Redirect(w, r, "/admin", models.LevelInfo, "Card deleted.")
}

// Clear handles POST /admin/clear: removes every card.
func (h *FlashcardHandler) Clear(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Service.Clear(r.Context())
	if err != nil {
		h.Renderer.ServerError(w, r, err)
		return
	}
	if removed == 0 {
		h.Renderer.Redirect(w, r, "/admin", models.LevelInfo, "No cards yet.")
		return
	}
	h.Logger.Info("flashcards cleared", zap.Int64("removed", removed))
	h.Renderer.Redirect(w, r, "/admin", models.LevelInfo, "All cards cleared.")
}

// Export handles GET /admin/export: all cards as a TSV download that
// re-imports cleanly.
func (h *FlashcardHandler) Export(w http.ResponseWriter, r *http.Request) {
	cards, err := h.Service.List(r.Context())
	if err != nil {
		h.Renderer.ServerError(w, r, err)
		return
	}
	if len(cards) == 0 {
		h.Renderer.Redirect(w, r, "/admin", models.LevelInfo, "Nothing to export.")
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	name := "flashcards-" + now().UTC().Format("2006-01-02-15-04-05") + ".tsv"

	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := importer.Write(w, cards); err != nil {
		h.Logger.Error("write export", zap.Error(err))
	}
}
