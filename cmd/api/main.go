package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dental-calls-go/internal/api"
	"dental-calls-go/internal/config"
	"dental-calls-go/internal/dashboard"
	"dental-calls-go/internal/dataset"
	"dental-calls-go/internal/logger"
	"dental-calls-go/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Environment: cfg.Environment, Level: cfg.LogLevel})
	log.WithField("service", "dental-calls-go").
		WithField("port", cfg.Port).
		WithField("environment", cfg.Environment).
		Info("starting service")

	m := metrics.New()
	source := dataset.NewSource(cfg.SourceURL, cfg.SourcePath, cfg.FetchTimeout, cfg.FetchMaxRetries, log)
	store := dashboard.NewStore(source, log, m)

	// load once up front; a failure is served to every request as a banner
	if recs, err := store.Records(context.Background()); err != nil {
		log.WithError(err).Warn("serving without call log")
	} else {
		log.WithField("total_calls", len(recs)).Info("call log loaded")
	}

	svc := dashboard.NewService(store, m)
	handler := api.NewHandler(svc, log, m)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(handler, log, m, cfg.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server terminated")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}
	log.Info("server stopped")
}
