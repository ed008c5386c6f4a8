// @title Shire of Paws BFF
// @version 1.0
// @description Catálogo, formulario de adopción y dashboard admin sobre la API del refugio.
// @BasePath /
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pg "shire-of-paws/internal/adapters/storage/postgres"
	"shire-of-paws/internal/config"
	"shire-of-paws/internal/domain/session"
	"shire-of-paws/internal/platform/httpclient"
	"shire-of-paws/internal/platform/logger"
	"shire-of-paws/internal/platform/metrics"
	"shire-of-paws/internal/platform/tracing"
	"shire-of-paws/internal/router"
)

const sweepEvery = 5 * time.Minute

func main() {
	cfgPath := flag.String("config", "", "ruta al YAML de configuración")
	flag.Parse()

	cfg := config.MustLoad(*cfgPath)

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.AppName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Options{
		ServiceName: cfg.AppName,
		Env:         cfg.Env,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		log.Error("tracing init failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	m := metrics.New()

	backend, err := httpclient.NewWithBaseURL(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	if err != nil {
		log.Error("invalid backend url", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	backend.Observe = m.ObserveBackend

	// Sesiones en Postgres si hay DSN; si no, en memoria.
	var sessions session.Repository
	if cfg.Session.DSN != "" {
		db, err := pg.Open(ctx, cfg.Session.DSN)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()

		repo := pg.NewSessionsRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Error("session schema failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		sessions = repo
		log.Info("sessions stored in postgres", nil)
	}

	app := router.New(router.Options{
		Config:   cfg,
		Backend:  backend,
		Logger:   log,
		Metrics:  m,
		Sessions: sessions,
	})

	go sweep(ctx, app.Sessions, log)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      app.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "backend": cfg.Backend.BaseURL})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Error("server error", map[string]any{"error": err.Error()})
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", map[string]any{"error": err.Error()})
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown failed", map[string]any{"error": err.Error()})
	}
	log.Info("server stopped", nil)
}

// sweep limpia sesiones vencidas hasta que ctx termine.
func sweep(ctx context.Context, m *session.Manager, log logger.Logger) {
	t := time.NewTicker(sweepEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := m.Sweep(ctx)
			if err != nil {
				log.Warn("session sweep failed", map[string]any{"error": err.Error()})
				continue
			}
			if n > 0 {
				log.Info("expired sessions removed", map[string]any{"count": n})
			}
		}
	}
}
