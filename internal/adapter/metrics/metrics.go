package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics satisfies repository.Recorder and worker.Observer.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal      *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
	workerInFlight     prometheus.Gauge
	documentPages      prometheus.Histogram
}

func New(service string) *Metrics {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "vakil",
			Name:        "requests_total",
			Help:        "Handled requests by front-end, request kind and outcome.",
			ConstLabels: constLabels,
		},
		[]string{"frontend", "kind", "outcome"},
	)
	completionDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   "vakil",
			Name:        "completion_duration_seconds",
			Help:        "Time spent waiting for the model.",
			Buckets:     []float64{0.5, 1, 2, 5, 10, 15, 20, 30, 45, 60, 120},
			ConstLabels: constLabels,
		},
		[]string{"kind"},
	)
	workerInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "vakil",
			Name:        "worker_in_flight",
			Help:        "Model calls currently holding a worker slot.",
			ConstLabels: constLabels,
		},
	)
	documentPages := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   "vakil",
			Name:        "document_pages",
			Help:        "Pages per uploaded contract.",
			Buckets:     []float64{1, 2, 3, 5, 8, 13, 21, 34, 55, 89},
			ConstLabels: constLabels,
		},
	)

	registry.MustRegister(
		requestsTotal, completionDuration, workerInFlight, documentPages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:           registry,
		requestsTotal:      requestsTotal,
		completionDuration: completionDuration,
		workerInFlight:     workerInFlight,
		documentPages:      documentPages,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveRequest(frontend, kind, outcome string) {
	m.requestsTotal.WithLabelValues(frontend, kind, outcome).Inc()
}

func (m *Metrics) ObserveCompletion(kind string, d time.Duration) {
	m.completionDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) ObservePages(pages int) {
	if pages <= 0 {
		return
	}
	m.documentPages.Observe(float64(pages))
}

func (m *Metrics) TaskStarted() { m.workerInFlight.Inc() }
func (m *Metrics) TaskFinished() { m.workerInFlight.Dec() }
