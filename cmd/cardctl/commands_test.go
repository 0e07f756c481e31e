package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/atinyakov/flashcards/internal/db"
	"github.com/atinyakov/flashcards/internal/repository"
	"github.com/atinyakov/flashcards/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *service.FlashcardService {
	t.Helper()
	conn, err := db.InitSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return service.NewFlashcardService(repository.NewFlashcardRepository(conn))
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cards.tsv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportListExportDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	var out bytes.Buffer

	path := writeFile(t, "expression\texplanation\nhello\tgreeting\nbye\tfarewell\n")
	require.NoError(t, runImport(ctx, svc, []string{path}, &out))
	assert.Equal(t, "Added 2 records.\n", out.String())

	out.Reset()
	require.NoError(t, runList(ctx, svc, nil, &out))
	assert.Contains(t, out.String(), "EXPRESSION")
	assert.Contains(t, out.String(), "hello")

	out.Reset()
	require.NoError(t, runExport(ctx, svc, nil, &out))
	exported := out.String()
	assert.True(t, strings.HasPrefix(exported, "expression\texplanation\n"))

	// The export re-imports to the same pairs.
	other := newTestService(t)
	n, err := other.Import(ctx, []byte(exported))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	cards, err := svc.List(ctx)
	require.NoError(t, err)
	out.Reset()
	require.NoError(t, runDelete(ctx, svc, []string{"-id", "1"}, &out))
	assert.Contains(t, out.String(), "Deleted flashcard 1.")

	err = runDelete(ctx, svc, []string{"1"}, &out)
	assert.ErrorContains(t, err, "not found")

	remaining, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, len(cards)-1)
}

func TestImportErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	var out bytes.Buffer

	err := runImport(ctx, svc, nil, &out)
	assert.ErrorIs(t, err, errUsage)

	err = runImport(ctx, svc, []string{writeFile(t, "")}, &out)
	assert.ErrorContains(t, err, "empty")

	err = runImport(ctx, svc, []string{writeFile(t, "\xff\xfe\n")}, &out)
	assert.ErrorContains(t, err, "UTF-8")

	require.NoError(t, runImport(ctx, svc, []string{writeFile(t, "header\nonly-one-field\n")}, &out))
	assert.Contains(t, out.String(), "No valid rows")
}

func TestExportToFile(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, err := svc.Add(ctx, "hello", "greeting")
	require.NoError(t, err)

	dst := filepath.Join(t.TempDir(), "out.tsv")
	var out bytes.Buffer
	require.NoError(t, runExport(ctx, svc, []string{"-o", dst}, &out))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "expression\texplanation\nhello\tgreeting\n", string(data))
}

func TestDeleteUsage(t *testing.T) {
	var out bytes.Buffer
	err := runDelete(context.Background(), newTestService(t), nil, &out)
	assert.ErrorIs(t, err, errUsage)
}

func TestHashPassword(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runHashPassword([]string{"-p", "s3cret"}, &out))

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	err := runHashPassword(nil, &out)
	assert.ErrorIs(t, err, errUsage)
}

func TestShow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	card, err := svc.Add(ctx, "hello", "greeting")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runShow(ctx, svc, []string{"-id", strconv.FormatInt(card.ID, 10)}, &out))
	assert.Contains(t, out.String(), "Expression:  hello")
	assert.Contains(t, out.String(), "Explanation: greeting")

	err = runShow(ctx, svc, []string{"999"}, &out)
	assert.ErrorContains(t, err, "not found")

	err = runShow(ctx, svc, nil, &out)
	assert.ErrorIs(t, err, errUsage)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	var out bytes.Buffer

	assert.ErrorIs(t, runClear(ctx, svc, nil, &out), errUsage)

	require.NoError(t, runClear(ctx, svc, []string{"-yes"}, &out))
	assert.Equal(t, "No cards yet.\n", out.String())

	_, err := svc.Add(ctx, "hello", "greeting")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "bye", "farewell")
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, runClear(ctx, svc, []string{"-yes"}, &out))
	assert.Equal(t, "Cleared 2 cards.\n", out.String())

	cards, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cards)
}
