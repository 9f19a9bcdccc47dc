package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthPath is the liveness probe path.
const HealthPath = "/health"

// MetricsPath is where Prometheus metrics are exposed on the metrics listener.
const MetricsPath = "/metrics"

// Option configures the handlers built by this package.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for recovered panics and unknown paths.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewHealthHandler creates the liveness responder.
// The health path answers 200 "OK" as plain text; every other path is a 404 with an empty body.
func NewHealthHandler(opts ...Option) http.Handler {
	o := buildOptions(opts)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Any method is accepted on the probe path.
	r.HandleFunc(HealthPath, GetHealth)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		o.logger.Debug("health: unknown path", "path", r.URL.Path, "method", r.Method)
		w.WriteHeader(http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	return r
}

// GetHealth handles the /health request.
func GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "OK")
}

// NewMetricsHandler exposes the gatherer's metrics on /metrics.
func NewMetricsHandler(gatherer prometheus.Gatherer, opts ...Option) http.Handler {
	o := buildOptions(opts)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(o.logger.Handler(), slog.LevelError),
	}))
	return r
}
