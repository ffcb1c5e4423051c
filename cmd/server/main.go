package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dconn.dev/hexboard/internal/config"
	"dconn.dev/hexboard/internal/handlers"
	"dconn.dev/hexboard/internal/persistence"
	"dconn.dev/hexboard/internal/services"
)

func main() {
	configPath := flag.String("config", envOr("CONFIG_PATH", "config.yaml"), "path to YAML config")
	addr := flag.String("addr", "", "listen address (overrides config)")
	levelStr := flag.String("log-level", "info", "debug|info|warn|error")
	flag.Parse()

	lvl := slog.LevelInfo
	switch strings.ToLower(*levelStr) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		slog.Error("building map catalog", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := persistence.Open(ctx, cfg.Storage.DBPath)
	if err != nil {
		slog.Error("opening share store", "path", cfg.Storage.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	svc := services.NewBoardService(catalog, db, services.Options{
		PublicURL:   cfg.Server.PublicURL,
		DefaultMap:  cfg.Generation.DefaultMap,
		MaxAttempts: cfg.Generation.MaxAttempts,
	})
	go pruneSessions(ctx, svc, cfg.Server.SessionTTL)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handlers.SetupRoutes(cfg, svc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "error", err)
		}
	}()

	slog.Info("listening",
		"addr", cfg.Server.Addr,
		"public_url", cfg.Server.PublicURL,
		"db", cfg.Storage.DBPath,
		"maps", len(catalog.All()),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// pruneSessions drops idle sessions until ctx is cancelled
func pruneSessions(ctx context.Context, svc *services.BoardService, ttl time.Duration) {
	ticker := time.NewTicker(max(ttl/4, time.Minute))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := svc.PruneIdle(ttl); n > 0 {
				slog.Info("pruned idle sessions", "count", n, "remaining", svc.SessionCount())
			}
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
