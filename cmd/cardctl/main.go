// Command cardctl manages the flashcards database from the shell: bulk
// import and export, listing, deletion, and hashing the admin password.
//
// Usage:
//
//	cardctl [-t sqlite|postgres] [-d dsn] <command> [args]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/atinyakov/flashcards/internal/config"
	"github.com/atinyakov/flashcards/internal/db"
	"github.com/atinyakov/flashcards/internal/logger"
	"github.com/atinyakov/flashcards/internal/repository"
	"github.com/atinyakov/flashcards/internal/service"
	"go.uber.org/zap"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: cardctl [-t sqlite|postgres] [-d dsn] <command> [args]

commands:
  import <file.tsv>        add every valid row of a TSV file
  export [-o file.tsv]     write all cards as TSV
  list                     show all cards, newest first
  show -id <id>            print one card
  delete -id <id>          delete one card
  clear -yes               delete every card
  hash-password -p <pass>  print a bcrypt hash for ADMIN_PASSWORD_HASH`)
}

func main() {
	options, args, err := config.ParseCommand(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	if err := run(options, args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(options *config.Options, command string, args []string) error {
	// hash-password needs no database.
	if command == "hash-password" {
		return runHashPassword(args, os.Stdout)
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		return err
	}

	conn, err := db.Init(options.DatabaseType, options.DatabaseDSN)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Log.Debug("database opened", zap.String("type", options.DatabaseType))

	svc := service.NewFlashcardService(repository.NewFlashcardRepository(conn))
	ctx := context.Background()

	switch command {
	case "import":
		return runImport(ctx, svc, args, os.Stdout)
	case "export":
		return runExport(ctx, svc, args, os.Stdout)
	case "list":
		return runList(ctx, svc, args, os.Stdout)
	case "show":
		return runShow(ctx, svc, args, os.Stdout)
	case "delete":
		return runDelete(ctx, svc, args, os.Stdout)
	case "clear":
		return runClear(ctx, svc, args, os.Stdout)
	default:
		printUsage()
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}
