// Package repository provides the flashcard store on top of database/sql.
// Queries use $n placeholders and RETURNING, which both PostgreSQL and
// SQLite accept; timestamps are bound from Go so no dialect-specific clock
// function is needed.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/flashcards/internal/models"
)

// ErrNotFound is returned when no live flashcard has the requested id.
var ErrNotFound = errors.New("flashcard not found")

// FlashcardRepository persists flashcards.
type FlashcardRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
	// Now is the store clock. It defaults to time.Now.
	Now func() time.Time
}

// NewFlashcardRepository creates a FlashcardRepository using the provided *sql.DB.
func NewFlashcardRepository(db *sql.DB) *FlashcardRepository {
	return &FlashcardRepository{DB: db, Now: time.Now}
}

func (r *FlashcardRepository) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC()
	}
	return r.Now().UTC()
}

// Create inserts a flashcard and returns it with its assigned id and
// creation time. Values are stored as given.
func (r *FlashcardRepository) Create(ctx context.Context, expression, explanation string) (*models.Flashcard, error) {
	card := models.Flashcard{
		Expression:  expression,
		Explanation: explanation,
		CreatedAt:   r.now(),
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO flashcards (expression, explanation, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, card.Expression, card.Explanation, card.CreatedAt).Scan(&card.ID)
	if err != nil {
		return nil, fmt.Errorf("create flashcard: %w", err)
	}
	return &card, nil
}

// CreateBatch inserts all cards in a single transaction. Either every card
// is stored or none is. It returns the number of inserted rows.
func (r *FlashcardRepository) CreateBatch(ctx context.Context, cards []models.NewFlashcard) (int, error) {
	if len(cards) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO flashcards (expression, explanation, created_at)
		VALUES ($1, $2, $3)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range cards {
		if _, err := stmt.ExecContext(ctx, c.Expression, c.Explanation, r.now()); err != nil {
			return 0, fmt.Errorf("insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(cards), nil
}

// ListByRecency returns every live flashcard, newest first. Cards created
// at the same instant are ordered by descending id.
func (r *FlashcardRepository) ListByRecency(ctx context.Context) ([]models.Flashcard, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, expression, explanation, created_at FROM flashcards
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list flashcards: %w", err)
	}
	defer rows.Close()

	cards := make([]models.Flashcard, 0)
	for rows.Next() {
		var c models.Flashcard
		if err := rows.Scan(&c.ID, &c.Expression, &c.Explanation, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list flashcards: %w", err)
	}
	return cards, nil
}

// Get fetches a single live flashcard by id.
func (r *FlashcardRepository) Get(ctx context.Context, id int64) (*models.Flashcard, error) {
	var c models.Flashcard
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, expression, explanation, created_at FROM flashcards
		WHERE id = $1 AND deleted_at IS NULL
	`, id).Scan(&c.ID, &c.Expression, &c.Explanation, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get flashcard: %w", err)
	}
	return &c, nil
}

// Delete soft-deletes the flashcard with the given id. From then on it is
// invisible to Get and ListByRecency; the cleaner purges it later.
func (r *FlashcardRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE flashcards SET deleted_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`, r.now(), id)
	if err != nil {
		return fmt.Errorf("delete flashcard: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete flashcard: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll soft-deletes every live flashcard and returns how many were
// removed. Ids stay reserved; the cleaner purges the rows later.
func (r *FlashcardRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE flashcards SET deleted_at = $1
		WHERE deleted_at IS NULL
	`, r.now())
	if err != nil {
		return 0, fmt.Errorf("delete all flashcards: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all flashcards: %w", err)
	}
	return n, nil
}
