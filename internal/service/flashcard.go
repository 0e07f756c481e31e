package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/flashcards/internal/importer"
	"github.com/atinyakov/flashcards/internal/models"
)

// ErrValidation is returned when a required field is empty after trimming.
var ErrValidation = errors.New("expression and explanation are required")

// FlashcardRepository defines the persistence operations needed by the
// FlashcardService.
type FlashcardRepository interface {
	// Create stores one flashcard and returns it with id and creation time.
	Create(ctx context.Context, expression, explanation string) (*models.Flashcard, error)
	// CreateBatch stores all cards atomically and returns how many were stored.
	CreateBatch(ctx context.Context, cards []models.NewFlashcard) (int, error)
	// ListByRecency returns every flashcard, newest first.
	ListByRecency(ctx context.Context) ([]models.Flashcard, error)
	// Get fetches a flashcard by id.
	Get(ctx context.Context, id int64) (*models.Flashcard, error)
	// Delete removes a flashcard by id.
	Delete(ctx context.Context, id int64) error
	// DeleteAll removes every flashcard and returns how many there were.
	DeleteAll(ctx context.Context) (int64, error)
}

// FlashcardService implements flashcard management on top of a repository.
type FlashcardService struct {
	// repo is the underlying persistence repository.
	repo FlashcardRepository
}

// NewFlashcardService constructs a FlashcardService with the provided repository.
func NewFlashcardService(repo FlashcardRepository) *FlashcardService {
	return &FlashcardService{repo: repo}
}

// Add trims both fields and creates a flashcard. It returns ErrValidation
// without touching the store if either field is blank.
func (s *FlashcardService) Add(ctx context.Context, expression, explanation string) (*models.Flashcard, error) {
	expression = strings.TrimSpace(expression)
	explanation = strings.TrimSpace(explanation)
	if expression == "" || explanation == "" {
		return nil, ErrValidation
	}
	return s.repo.Create(ctx, expression, explanation)
}

// List returns all flashcards, newest first.
func (s *FlashcardService) List(ctx context.Context) ([]models.Flashcard, error) {
	return s.repo.ListByRecency(ctx)
}

// Get returns a single flashcard.
func (s *FlashcardService) Get(ctx context.Context, id int64) (*models.Flashcard, error) {
	return s.repo.Get(ctx, id)
}

// Delete removes a flashcard.
func (s *FlashcardService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Clear removes every flashcard. It returns 0 when there was nothing to
// remove.
func (s *FlashcardService) Clear(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear: %w", err)
	}
	return n, nil
}

// Import parses raw TSV and stores every valid row in one batch. Parse
// failures (importer.ErrDecode, importer.ErrEmptyInput,
// importer.ErrNoValidRows) are returned unwrapped and nothing is stored.
func (s *FlashcardService) Import(ctx context.Context, raw []byte) (int, error) {
	batch, err := importer.Parse(raw)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.CreateBatch(ctx, batch.Cards)
	if err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	return n, nil
}
