package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/atinyakov/flashcards/internal/importer"
	"github.com/atinyakov/flashcards/internal/models"
	"github.com/atinyakov/flashcards/internal/repository"
	"github.com/atinyakov/flashcards/internal/service"
	"github.com/dustin/go-humanize"
)

// cardService is the subset of service.FlashcardService the commands use.
type cardService interface {
	List(ctx context.Context) ([]models.Flashcard, error)
	Get(ctx context.Context, id int64) (*models.Flashcard, error)
	Delete(ctx context.Context, id int64) error
	Import(ctx context.Context, raw []byte) (int, error)
	Clear(ctx context.Context) (int64, error)
}

var errUsage = errors.New("usage")

func runImport(ctx context.Context, svc cardService, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: import <file.tsv>", errUsage)
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	created, err := svc.Import(ctx, raw)
	switch {
	case errors.Is(err, importer.ErrDecode):
		return errors.New("could not read the file, make sure it is UTF-8 encoded")
	case errors.Is(err, importer.ErrEmptyInput):
		return errors.New("the TSV file is empty")
	case errors.Is(err, importer.ErrNoValidRows):
		fmt.Fprintln(out, "No valid rows to import.")
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(out, "Added %s records.\n", humanize.Comma(int64(created)))
	return nil
}

func runExport(ctx context.Context, svc cardService, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	output := fs.String("o", "", "write to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cards, err := svc.List(ctx)
	if err != nil {
		return err
	}

	if *output == "" {
		return importer.Write(out, cards)
	}
	f, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := importer.Write(f, cards); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Exported %s cards to %s\n", humanize.Comma(int64(len(cards))), *output)
	return nil
}

func runList(ctx context.Context, svc cardService, _ []string, out io.Writer) error {
	cards, err := svc.List(ctx)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Fprintln(out, "No flashcards yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEXPRESSION\tEXPLANATION\tCREATED")
	for _, c := range cards {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Expression, c.Explanation, humanize.Time(c.CreatedAt))
	}
	return w.Flush()
}

// parseID reads the card id from -id or a single positional argument.
func parseID(command string, args []string) (int64, error) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	id := fs.Int64("id", 0, "flashcard id")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	if *id == 0 && fs.NArg() == 1 {
		v, err := strconv.ParseInt(fs.Arg(0), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s -id <id>", errUsage, command)
		}
		*id = v
	}
	if *id <= 0 {
		return 0, fmt.Errorf("%w: %s -id <id>", errUsage, command)
	}
	return *id, nil
}

func runShow(ctx context.Context, svc cardService, args []string, out io.Writer) error {
	id, err := parseID("show", args)
	if err != nil {
		return err
	}

	card, err := svc.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("flashcard %d not found", id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "ID:          %d\nExpression:  %s\nExplanation: %s\nCreated:     %s (%s)\n",
		card.ID, card.Expression, card.Explanation,
		card.CreatedAt.UTC().Format("2006-01-02 15:04:05"), humanize.Time(card.CreatedAt))
	return nil
}

func runDelete(ctx context.Context, svc cardService, args []string, out io.Writer) error {
	id, err := parseID("delete", args)
	if err != nil {
		return err
	}

	if err := svc.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("flashcard %d not found", id)
		}
		return err
	}
	fmt.Fprintf(out, "Deleted flashcard %d.\n", id)
	return nil
}

func runClear(ctx context.Context, svc cardService, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "confirm removing every card")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("%w: clear -yes", errUsage)
	}

	n, err := svc.Clear(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(out, "No cards yet.")
		return nil
	}
	fmt.Fprintf(out, "Cleared %s cards.\n", humanize.Comma(n))
	return nil
}

func runHashPassword(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	password := fs.String("p", "", "password to hash")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		return fmt.Errorf("%w: hash-password -p <password>", errUsage)
	}

	hash, err := service.HashPassword(*password)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hash)
	return nil
}
