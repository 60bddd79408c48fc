package telemetry

import (
	"net/http"
	"strings"

	"github.com/alexanderramin/taskhelper/internal/answer"
	"github.com/alexanderramin/taskhelper/internal/llm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taskhelper"

// sourceAbandoned labels resolutions the caller gave up on.
const sourceAbandoned = "abandoned"

// Metrics holds the collectors on a private registry. It implements both
// llm.Observer and answer.Observer.
type Metrics struct {
	registry      *prometheus.Registry
	answers       *prometheus.CounterVec
	stageFailures *prometheus.CounterVec
	modelCalls    *prometheus.CounterVec
	modelLatency  *prometheus.HistogramVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Final answers by the stage that produced them.",
		}, []string{"source"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_failures_total",
			Help:      "Stages that were skipped or failed during resolution.",
		}, []string{"stage", "kind"}),
		modelCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_calls_total",
			Help:      "Model endpoint calls by outcome.",
		}, []string{"endpoint", "outcome"}),
		modelLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_call_duration_seconds",
			Help:      "Model endpoint call latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 10, 15},
		}, []string{"endpoint"}),
	}
	m.registry.MustRegister(
		m.answers,
		m.stageFailures,
		m.modelCalls,
		m.modelLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) OnCallComplete(e llm.CallEvent) {
	outcome := "ok"
	if !e.Success {
		outcome = strings.ToLower(e.ErrorCode)
	}
	m.modelCalls.WithLabelValues(e.Endpoint, outcome).Inc()
	m.modelLatency.WithLabelValues(e.Endpoint).Observe(float64(e.LatencyMs) / 1000)
}

func (m *Metrics) OnResolved(e answer.ResolutionEvent) {
	for _, a := range e.Attempts {
		m.stageFailures.WithLabelValues(string(a.Stage), string(a.Kind)).Inc()
	}
	source := string(e.Source)
	if e.Abandoned {
		source = sourceAbandoned
	}
	m.answers.WithLabelValues(source).Inc()
}
