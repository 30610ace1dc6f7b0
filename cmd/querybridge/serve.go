package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"querybridge/internal/handlers"
	"querybridge/internal/httpserver"
	"querybridge/internal/metrics"
	"querybridge/pkg/logging"
)

const cacheSweepInterval = 10 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP translation service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	logger := logging.DefaultLogger()
	defer logger.Sync()

	metrics.Register()

	app, err := buildApp(logger)
	if err != nil {
		logger.Error("initialization failed", zap.Error(err))
		return err
	}
	defer app.Close()

	queryHandler := handlers.NewQueryHandler(app.service)

	r := chi.NewRouter()
	httpserver.SetupRouter(r, logger, queryHandler, httpserver.Options{
		RequestTimeout: app.cfg.Server.RequestTimeout.Std(),
		MaxBodyBytes:   app.cfg.Server.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:              ":" + app.cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      app.cfg.Server.RequestTimeout.Std() + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting querybridge",
		zap.String("addr", srv.Addr),
		zap.String("cache_backend", app.cfg.Cache.Backend),
		zap.String("model", app.cfg.LLM.Model),
	)

	// Start server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	// Periodic cache sweep. Get already expires lazily; the sweep keeps
	// memory from pooling on idle deployments.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(cacheSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if _, err := app.service.EvictExpired(sweepCtx); err != nil {
					logger.Warn("cache sweep failed", zap.Error(err))
				}
			}
		}
	}()

	// ----- Graceful shutdown -----
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("server shutdown complete")
	return nil
}
