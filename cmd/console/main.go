package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schooladmin/internal/adapters/gateway"
	"schooladmin/internal/adapters/gradebook"
	web "schooladmin/internal/adapters/http"
	"schooladmin/internal/adapters/http/perf"
	"schooladmin/internal/application/projections"
	appRoster "schooladmin/internal/application/roster"
	"schooladmin/internal/config"
	domain "schooladmin/internal/domain/roster"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// shutdownTimeout bounds how long in-flight requests may finish on exit.
const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("console_exit", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogger(cfg)
	if !cfg.CSRFKeySet {
		slog.Warn("csrf_key_random", "hint", "set CONSOLE_CSRF_KEY so form tokens survive a restart")
	}

	// Performance instrumentation shared by the middleware and the gateways.
	collector := perf.NewCollector(perf.DefaultRingSize)
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	flash := web.NewFlash()
	clients := make(map[domain.Kind]*gateway.Client, len(domain.Kinds))
	screens := make(map[domain.Kind]*appRoster.Screen, len(domain.Kinds))
	for _, kind := range domain.Kinds {
		gw, err := gateway.New(cfg.BackendURL, kind,
			gateway.WithHTTPClient(httpClient),
			gateway.WithCollector(collector),
			gateway.WithSlowThreshold(cfg.SlowUpstream),
		)
		if err != nil {
			return fmt.Errorf("gateway %s: %w", kind, err)
		}
		clients[kind] = gw
		screens[kind] = appRoster.NewScreen(kind, gw, flash, cfg.PerPage)
	}

	console := &web.Console{
		Screens: screens,
		Dashboard: projections.GetDashboardDeps{
			Courses:  clients[domain.KindCourses],
			Students: clients[domain.KindStudents],
			Teachers: clients[domain.KindTeachers],
		},
		Sheets:    gradebook.NewSampleSource(),
		Flash:     flash,
		Collector: collector,
	}
	handler := web.NewMux(console, web.Options{
		CSRFKey:        cfg.CSRFKey,
		SecureCookies:  cfg.IsProduction(),
		TrustedOrigins: cfg.TrustedOrigins,
		SlowRequest:    cfg.SlowRequest,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.HTTPTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("console_starting",
			"version", version,
			"addr", cfg.Addr,
			"env", cfg.Environment,
			"backend", cfg.BackendURL,
			"per_page", cfg.PerPage,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("console_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// setupLogger installs the default slog handler from cfg.
func setupLogger(cfg config.Config) {
	level, _ := config.ParseLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}
