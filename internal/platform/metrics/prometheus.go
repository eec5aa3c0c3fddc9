package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager owns the service registry and search instruments.
type MetricsManager struct {
	Registry          *prometheus.Registry
	SearchesTotal     *prometheus.CounterVec
	DegradationsTotal *prometheus.CounterVec
	SearchLatency     prometheus.Histogram
	SearchResults     prometheus.Histogram
	CampusLookups     *prometheus.CounterVec
}

func NewMetricsManager(namespace string) *MetricsManager {
	registry := prometheus.NewRegistry()

	m := &MetricsManager{
		Registry: registry,
		SearchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Searches served, by sort option.",
		}, []string{"sort"}),
		DegradationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_degradations_total",
			Help:      "Searches answered with a widened or partial result, by reason.",
		}, []string{"reason"}),
		SearchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_latency_seconds",
			Help:      "End-to-end search latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		SearchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of listings matched per search before pagination.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		CampusLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "campus_lookups_total",
			Help:      "Campus autocomplete lookups, by answering source.",
		}, []string{"source"}),
	}

	registry.MustRegister(
		m.SearchesTotal,
		m.DegradationsTotal,
		m.SearchLatency,
		m.SearchResults,
		m.CampusLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSearch records one completed search.
func (m *MetricsManager) ObserveSearch(sort string, took time.Duration, results int, degradations []string) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(sort).Inc()
	m.SearchLatency.Observe(took.Seconds())
	m.SearchResults.Observe(float64(results))
	for _, d := range degradations {
		m.DegradationsTotal.WithLabelValues(d).Inc()
	}
}

// StartMetricsServer serves /metrics for registry on port. It blocks; an
// empty port disables it.
func StartMetricsServer(port string, log *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		log.Info("metrics server disabled: port not configured")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
