// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Simulation metrics
	SimulationsRun     prometheus.Counter
	ProjectionDays     prometheus.Counter
	ShutdownsTotal     *prometheus.CounterVec
	SimulationDuration prometheus.Histogram

	// Pricing metrics
	QuotesSolved *prometheus.CounterVec

	// Market resolution metrics
	MatchOutcomes *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "miner_econ_lab"
	}

	return &Metrics{
		SimulationsRun: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_run_total",
			Help:      "Total number of simulator runs executed.",
		}),
		ProjectionDays: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projection_days_total",
			Help:      "Total number of daily projections produced.",
		}),
		ShutdownsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shutdowns_total",
			Help:      "Simulator shutdowns by reason.",
		}, []string{"reason"}),
		SimulationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulation_duration_seconds",
			Help:      "Wall time of one simulator run.",
			Buckets:   prometheus.DefBuckets,
		}),
		QuotesSolved: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_solved_total",
			Help:      "Price quotes solved by policy and achievability.",
		}, []string{"policy", "achievable"}),
		MatchOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_outcomes_total",
			Help:      "Market matcher outcomes.",
		}, []string{"outcome"}),
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
