package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/interiorhaus/catalog-admin/internal/devserver"
	"github.com/interiorhaus/catalog-admin/pkg/config"
	"github.com/interiorhaus/catalog-admin/pkg/logger"
	"github.com/interiorhaus/catalog-admin/pkg/metrics"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "devserver"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "devserver",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := devserver.NewStore(ctx, cfg.DevServer.DBPath, logg)
	if err != nil {
		logg.Error(ctx, "failed to open catalog store", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logg.Error(ctx, "error closing catalog store", err)
		}
	}()

	reg := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(reg)

	server, err := devserver.NewServer(store, cfg.DevServer, cfg.Media, logg, httpMetrics)
	if err != nil {
		logg.Error(ctx, "failed to build server", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.DevServer.Port,
		Handler:           server.Router(reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logg.Info(logg.WithField(ctx, "port", cfg.DevServer.Port), "dev catalog server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "server stopped", err)
		os.Exit(1)
	}
}
