// Package importer converts tab-separated text into flashcard creation
// requests and writes flashcards back out in the same format.
//
// The format is one record per line with fields separated by a single tab.
// There is no quoting or escaping. The first line is always treated as a
// header and discarded, even when it holds data.
package importer

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/atinyakov/flashcards/internal/models"
)

var (
	// ErrDecode is returned when the input is not valid UTF-8.
	ErrDecode = errors.New("input is not valid UTF-8")
	// ErrEmptyInput is returned when the input has no rows at all.
	ErrEmptyInput = errors.New("input is empty")
	// ErrNoValidRows is returned when every row after the header was skipped.
	ErrNoValidRows = errors.New("no valid rows")
)

// Header is the first line written by Write.
const Header = "expression\texplanation"

// Batch is the outcome of a successful Parse.
type Batch struct {
	// Cards are the staged creation requests, in file order.
	Cards []models.NewFlashcard
	// Rows counts data rows after the header.
	Rows int
	// Skipped counts data rows rejected as malformed or blank.
	Skipped int
}

// Parse decodes raw and stages one creation request per valid row.
// Malformed rows are skipped; only undecodable or empty input, or input
// with no valid rows, is an error.
func Parse(raw []byte) (*Batch, error) {
	if !utf8.Valid(raw) {
		return nil, ErrDecode
	}

	// A leading BOM stays in the header row, which is discarded, so a
	// BOM-only file is a header without data rather than an empty file.
	rows := splitRows(string(raw))
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	batch := &Batch{Rows: len(rows) - 1}
	for _, row := range rows[1:] {
		card, ok := parseRow(row)
		if !ok {
			batch.Skipped++
			continue
		}
		batch.Cards = append(batch.Cards, card)
	}

	if len(batch.Cards) == 0 {
		return batch, ErrNoValidRows
	}
	return batch, nil
}

// splitRows breaks text into lines. A trailing newline does not start an
// extra row, and CRLF line endings are accepted.
func splitRows(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func parseRow(row string) (models.NewFlashcard, bool) {
	fields := strings.Split(row, "\t")
	if len(fields) < 2 {
		return models.NewFlashcard{}, false
	}
	expression := strings.TrimSpace(fields[0])
	explanation := strings.TrimSpace(fields[1])
	if expression == "" || explanation == "" {
		return models.NewFlashcard{}, false
	}
	return models.NewFlashcard{Expression: expression, Explanation: explanation}, true
}

var fieldCleaner = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

// Write renders cards as TSV preceded by Header. Tabs and line breaks
// inside a field become spaces so the output parses back to the same pairs.
func Write(w io.Writer, cards []models.Flashcard) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header + "\n"); err != nil {
		return err
	}
	for _, c := range cards {
		line := fieldCleaner.Replace(c.Expression) + "\t" + fieldCleaner.Replace(c.Explanation) + "\n"
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
