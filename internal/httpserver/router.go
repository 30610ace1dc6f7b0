package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"querybridge/internal/handlers"
	"querybridge/internal/metrics"
	"querybridge/internal/middleware"
)

// Options tune the router-level limits.
type Options struct {
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

func (o Options) withDefaults() Options {
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 60 * time.Second
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 64 * 1024
	}
	return o
}

func SetupRouter(r *chi.Mux, baseLogger *zap.Logger, queryHandler *handlers.QueryHandler, opts Options) {
	opts = opts.withDefaults()

	r.Use(metrics.Middleware)

	// base middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)

	r.Use(middleware.LoggingContext(baseLogger))
	r.Use(middleware.Recoverer())
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(middleware.MaxBodySize(opts.MaxBodyBytes))

	// routes
	r.Route("/v1", func(r chi.Router) {
		r.Post("/translate", queryHandler.Translate)
		r.Get("/stats", queryHandler.Stats)
		r.Get("/report", queryHandler.Report)
		r.Get("/languages", queryHandler.Languages)
	})

	// liveness
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// readiness runs the translator canary
	r.Get("/readyz", queryHandler.Ready)

	r.Handle("/metrics", metrics.Handler())
}
