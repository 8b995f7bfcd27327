package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	planGenerations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitai",
		Name:      "plan_generations_total",
		Help:      "Plan generations by diet source (ai or fallback).",
	}, []string{"source"})

	completionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fitai",
		Name:      "completion_duration_seconds",
		Help:      "Latency of diet completion requests, including failed ones.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
	})

	activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitai",
		Name:      "active_sessions",
		Help:      "Sessions currently held in memory.",
	})

	exportsRendered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitai",
		Name:      "plan_exports_total",
		Help:      "Plan documents rendered, labelled by whether they were archived.",
	}, []string{"archived"})
)

func init() {
	prometheus.MustRegister(planGenerations, completionDuration, activeSessions, exportsRendered)
}

// RecordPlanGeneration counts one finished generation.
func RecordPlanGeneration(source string) {
	planGenerations.WithLabelValues(source).Inc()
}

// ObserveCompletion records how long a completion request took.
func ObserveCompletion(d time.Duration) {
	completionDuration.Observe(d.Seconds())
}

// SetActiveSessions updates the session gauge.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// RecordExport counts one rendered document.
func RecordExport(archived bool) {
	label := "false"
	if archived {
		label = "true"
	}
	exportsRendered.WithLabelValues(label).Inc()
}
