// Package metrics exposes Prometheus instrumentation for recommendation runs.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application collectors on a private registry
type Metrics struct {
	Registry *prometheus.Registry

	RecommendationsTotal *prometheus.CounterVec
	ItemsScoredTotal     *prometheus.CounterVec
	JoinMissesTotal      *prometheus.CounterVec
	RecommendDuration    *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RecommendationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "incomeadvisor_recommendations_total",
				Help: "Total number of recommendation runs",
			},
			[]string{"mode", "kind"},
		),
		ItemsScoredTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "incomeadvisor_items_scored_total",
				Help: "Total number of catalog items scored",
			},
			[]string{"mode"},
		),
		JoinMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "incomeadvisor_join_misses_total",
				Help: "Criteria or weights that could not be joined to a factor by name",
			},
			[]string{"source"},
		),
		RecommendDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "incomeadvisor_recommend_duration_seconds",
				Help:    "Duration of a recommendation run in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"mode"},
		),
	}
}

// ObserveRun records one recommendation run
func (m *Metrics) ObserveRun(mode, kind string, items int, d time.Duration) {
	if m == nil {
		return
	}
	m.RecommendationsTotal.WithLabelValues(mode, kind).Inc()
	m.ItemsScoredTotal.WithLabelValues(mode).Add(float64(items))
	m.RecommendDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// JoinMiss records a data-quality warning
func (m *Metrics) JoinMiss(source string) {
	if m == nil {
		return
	}
	m.JoinMissesTotal.WithLabelValues(source).Inc()
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Serve exposes /metrics on addr until ctx is cancelled
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
