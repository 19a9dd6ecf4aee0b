package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"donorhub/internal/adapters/coordapi"
	web "donorhub/internal/adapters/http"
	"donorhub/internal/adapters/http/livefeed"
	"donorhub/internal/adapters/http/perf"
	"donorhub/internal/adapters/storage"
	auditStore "donorhub/internal/adapters/storage/audit"
	sessionStore "donorhub/internal/adapters/storage/session"
	"donorhub/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_error", "error", err)
		os.Exit(1)
	}

	// Local database with WAL mode, foreign keys, and busy timeout.
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		slog.Error("db_open_failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		slog.Error("db_unreachable", "error", err)
		os.Exit(1)
	}
	if err := storage.InitDB(db); err != nil {
		slog.Error("db_init_failed", "error", err)
		os.Exit(1)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	api := coordapi.New(cfg.APIBaseURL, collector)

	hub := livefeed.NewHub()
	poller := livefeed.NewPoller(api, hub, cfg.PollInterval)

	d := &web.Deps{
		API:        api,
		Sessions:   sessionStore.NewSQLiteStore(db),
		AuditStore: auditStore.NewSQLiteStore(db),
		Collector:  collector,
		Hub:        hub,
		Poller:     poller,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go poller.Run(ctx)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewMux(cfg.StaticDir, d),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown_error", "error", err)
		}
	}()

	slog.Info("server_starting", "version", version, "addr", cfg.Addr, "api", cfg.APIBaseURL)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server_error", "error", err)
		os.Exit(1)
	}
	slog.Info("server_stopped")
}
