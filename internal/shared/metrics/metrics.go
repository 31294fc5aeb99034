package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portfolio"

// Enhancement results recorded by ObserveEnhancement.
const (
	EnhancementApplied  = "applied"
	EnhancementSkipped  = "skipped"
	EnhancementRejected = "failed"
)

// Registry holds every collector exposed at /metrics.
var Registry = prometheus.NewRegistry()

var (
	generationStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_started_total",
		Help:      "Total generation requests that created a record.",
	})
	generationCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_completed_total",
		Help:      "Total generation requests finalized as completed.",
	})
	generationFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_failed_total",
		Help:      "Total generation requests finalized as error.",
	})
	enhancements = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enhancement_total",
		Help:      "AI enhancement attempts by result.",
	}, []string{"result"})
	generationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generation_duration_ms",
		Help:      "Generation duration in milliseconds.",
		Buckets:   []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000},
	})
	rateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_rejected_total",
		Help:      "Requests rejected by the rate limiter by group.",
	}, []string{"group"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		generationStarted,
		generationCompleted,
		generationFailed,
		enhancements,
		generationDuration,
		rateLimited,
	)
}

// IncGenerationStarted increments the started counter.
func IncGenerationStarted() {
	generationStarted.Inc()
}

// IncGenerationCompleted increments the completed counter.
func IncGenerationCompleted() {
	generationCompleted.Inc()
}

// IncGenerationFailed increments the failed counter.
func IncGenerationFailed() {
	generationFailed.Inc()
}

// ObserveEnhancement records the outcome of an AI enhancement attempt.
func ObserveEnhancement(result string) {
	enhancements.WithLabelValues(result).Inc()
}

// ObserveGenerationDuration records a generation duration.
func ObserveGenerationDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	generationDuration.Observe(float64(d.Microseconds()) / 1000.0)
}

// IncRateLimited increments the rejection counter for a limiter group.
func IncRateLimited(group string) {
	rateLimited.WithLabelValues(group).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}
