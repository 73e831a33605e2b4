package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/treekeeper/internal/config"
	"github.com/iudanet/treekeeper/internal/server"
	"github.com/iudanet/treekeeper/internal/server/seed"
	"github.com/iudanet/treekeeper/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// shutdownTimeout ограничивает время завершения активных запросов
const shutdownTimeout = 10 * time.Second

type options struct {
	addr      string
	dbPath    string
	apiKey    string
	seedPath  string
	logLevel  string
	logFormat string
	rateLimit int
}

func main() {
	var opts options

	// Parse flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.StringVar(&opts.addr, "addr", ":8080", "HTTP listen address")
	flag.StringVar(&opts.dbPath, "db", "treekeeper-server.db", "SQLite database path")
	flag.StringVar(&opts.apiKey, "api-key", os.Getenv("TREEKEEPER_SERVER_API_KEY"), "Project API key (empty disables the check)")
	flag.StringVar(&opts.seedPath, "seed", "", "YAML file with species and clients to load on start")
	flag.IntVar(&opts.rateLimit, "rate-limit", 600, "Requests per minute per client (0 disables)")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := config.LogConfig{Level: opts.logLevel, Format: opts.logFormat}.Logger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *slog.Logger) error {
	store, err := sqlite.New(ctx, opts.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage", "error", err)
		}
	}()

	if opts.seedPath != "" {
		if err := applySeed(ctx, store, opts.seedPath, logger); err != nil {
			return err
		}
	}

	router := server.NewRouter(store, server.Options{
		APIKey:     opts.apiKey,
		RateLimit:  opts.rateLimit,
		RateWindow: time.Minute,
	}, logger)
	defer router.Close()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Treekeeper server starting",
			"addr", opts.addr,
			"db", opts.dbPath,
			"version", Version,
			"api_key_required", opts.apiKey != "",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func applySeed(ctx context.Context, store *sqlite.Storage, path string, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := seed.Load(f)
	if err != nil {
		return err
	}

	if _, err := seed.Apply(ctx, store, data, logger); err != nil {
		return err
	}
	return nil
}

func printVersion() {
	fmt.Printf("Treekeeper Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
