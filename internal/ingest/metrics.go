package ingest

import (
	"github.com/crashlens/crashlens/internal/engine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	classificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crashlens_classifications_total",
			Help: "Findings produced, by category and severity.",
		},
		[]string{"category", "severity"},
	)

	healthScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "crashlens_health_score",
			Help: "Latest aggregate health score per app, 0 to 1.",
		},
		[]string{"app"},
	)

	pollErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crashlens_poll_errors_total",
			Help: "Metric poll cycles that failed.",
		},
	)
)

// ObserveFinding records one classification in the exported metrics.
func ObserveFinding(f engine.Finding) {
	classificationsTotal.WithLabelValues(f.Category, string(f.Severity)).Inc()
}

// ObserveHealth records the latest aggregate health score for an app.
func ObserveHealth(app string, score float64) {
	healthScore.WithLabelValues(app).Set(score)
}
