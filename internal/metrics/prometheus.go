package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Exporter publishes call outcomes for one operation on a private registry.
type Exporter struct {
	operation string
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	failures  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

func NewExporter(operation string) *Exporter {
	registry := prometheus.NewRegistry()
	e := &Exporter{
		operation: operation,
		registry:  registry,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderbench_requests_total",
				Help: "Total number of order calls by outcome",
			},
			[]string{"operation", "outcome"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderbench_failures_total",
				Help: "Total number of failed order calls by error kind",
			},
			[]string{"operation", "kind"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orderbench_request_duration_seconds",
				Help:    "Order call latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
	registry.MustRegister(e.requests)
	registry.MustRegister(e.failures)
	registry.MustRegister(e.latency)

	// Series exist at zero before the first call completes.
	e.latency.WithLabelValues(operation)
	e.requests.WithLabelValues(operation, "success")
	e.requests.WithLabelValues(operation, "failure")
	return e
}

// observe records one call; an empty kind means success.
func (e *Exporter) observe(latency time.Duration, kind string) {
	e.latency.WithLabelValues(e.operation).Observe(latency.Seconds())
	if kind == "" {
		e.requests.WithLabelValues(e.operation, "success").Inc()
		return
	}
	e.requests.WithLabelValues(e.operation, "failure").Inc()
	e.failures.WithLabelValues(e.operation, kind).Inc()
}

// Registry returns the registry the exporter's collectors live in.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler returns the Prometheus metrics handler
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (e *Exporter) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics endpoint listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics endpoint shutdown", zap.Error(err))
		}
		return nil
	}
}
