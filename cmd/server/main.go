// Package main initializes and starts the flashcards HTTP server,
// setting up configuration, logging, database connections, repositories,
// services, handlers, and graceful shutdown.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/flashcards/internal/config"
	"github.com/atinyakov/flashcards/internal/db"
	"github.com/atinyakov/flashcards/internal/logger"
	"github.com/atinyakov/flashcards/internal/repository"
	"github.com/atinyakov/flashcards/internal/server/handler/http"
	"github.com/atinyakov/flashcards/internal/service"
	"github.com/atinyakov/flashcards/internal/session"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse .env, command-line, config file and environment.
	options, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(2)
	}
	zapLogger := log.Log

	if options.SecretKey == config.Defaults().SecretKey {
		zapLogger.Warn("SECRET_KEY is the default value; sessions can be forged")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the database and apply the schema.
	conn, err := db.Init(options.DatabaseType, options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer conn.Close()

	// Purge soft-deleted cards in the background.
	db.StartSoftDeleteCleaner(ctx, conn, options.PurgeInterval, options.PurgeRetention, zapLogger)

	repo := repository.NewFlashcardRepository(conn)

	// Initialize business-logic services.
	authService, err := service.NewAuthService(options.AdminUsername, options.AdminPassword, options.AdminPasswordHash)
	if err != nil {
		zapLogger.Fatal("invalid admin credentials", zap.Error(err))
	}
	flashcardService := service.NewFlashcardService(repo)

	// Session cookies and one-shot notices share cookie attributes.
	sessions := session.NewManager(options.SecretKey, options.SessionTTL)
	sessions.Secure = options.TLSEnabled()

	renderer, err := http.NewRenderer(zapLogger, sessions)
	if err != nil {
		zapLogger.Fatal("failed to parse templates", zap.Error(err))
	}

	// Create HTTP handlers for auth and flashcard pages.
	authHandler := &http.AuthHandler{
		AuthService: authService,
		Sessions:    sessions,
		Renderer:    renderer,
		Logger:      zapLogger,
	}
	flashcardHandler := &http.FlashcardHandler{
		Service:        flashcardService,
		Renderer:       renderer,
		Logger:         zapLogger,
		MaxUploadBytes: options.MaxUploadBytes,
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, flashcardHandler, renderer, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if options.TLSEnabled() {
		server.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("starting HTTP server",
			zap.String("addr", options.Addr),
			zap.String("database", options.DatabaseType),
			zap.Bool("tls", options.TLSEnabled()),
		)
		if options.TLSEnabled() {
			errCh <- server.ListenAndServeTLS(options.TLSCertFile, options.TLSKeyFile)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
