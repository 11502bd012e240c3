package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/offerpage/api"
	"github.com/use-agent/offerpage/cache"
	"github.com/use-agent/offerpage/config"
	"github.com/use-agent/offerpage/loader"
	"github.com/use-agent/offerpage/render"
	"github.com/use-agent/offerpage/scrapeoffer"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("offerpage starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"offerURL", cfg.Offer.URL,
		"backend", cfg.BackendBase(),
	)

	// ── 3. Initialise renderer ──────────────────────────────────────
	rd, err := render.New()
	if err != nil {
		slog.Error("failed to initialise renderer", "error", err)
		os.Exit(1)
	}

	// ── 4. Bundled scrape backend (optional) ────────────────────────
	var svc *scrapeoffer.Service
	if cfg.Scrape.Enabled {
		cc := cache.New(cfg.Scrape.CacheMaxEntries, cfg.Scrape.CacheTTL)
		svc = scrapeoffer.NewService(scrapeoffer.NewFetcher(cfg.Scrape.Timeout), cc, cfg.Scrape.AllowedHosts)
		slog.Info("bundled scrape-offer backend enabled",
			"allowedHosts", cfg.Scrape.AllowedHosts,
			"cacheTTL", cfg.Scrape.CacheTTL,
		)
	} else if cfg.Backend.BaseURL == "" {
		slog.Warn("no backend URL configured and bundled backend disabled; the offer fetch will fail")
	}

	// ── 5. Offer activation ─────────────────────────────────────────
	ld := loader.New(cfg.BackendBase(), loader.WithTimeout(cfg.Backend.Timeout))
	act := loader.NewActivation(ld, cfg.Offer.URL)
	defer act.Close()

	// ── 6. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(act, rd, svc, cfg, startTime)

	// ── 7. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		slog.Error("failed to listen", "addr", addr, "error", err)
		os.Exit(1)
	}
	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// The listener is bound, so a same-origin backend is reachable now.
	act.Start(context.Background())

	// ── 8. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("offerpage stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
