// Package models defines the core data structures for flashcards and
// the one-shot notices shown after an admin action.
package models

import "time"

// Flashcard is a single learning record: a term and its explanation.
type Flashcard struct {
	// ID is the system-assigned identifier. It is never reused.
	ID int64 `json:"id"`
	// Expression is the term or phrase being learned.
	Expression string `json:"expression"`
	// Explanation is the definition or answer.
	Explanation string `json:"explanation"`
	// CreatedAt is the creation time, used for newest-first ordering.
	CreatedAt time.Time `json:"created_at"`
}

// NewFlashcard is a validated creation request staged for the store.
type NewFlashcard struct {
	Expression  string
	Explanation string
}

// NoticeLevel classifies a notice for display.
type NoticeLevel string

const (
	// LevelSuccess marks a completed mutation.
	LevelSuccess NoticeLevel = "success"
	// LevelInfo marks a neutral outcome.
	LevelInfo NoticeLevel = "info"
	// LevelWarning marks rejected input.
	LevelWarning NoticeLevel = "warning"
	// LevelDanger marks a failure.
	LevelDanger NoticeLevel = "danger"
)

// Notice is a transient message carried from a redirecting handler to the
// next rendered page.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}
