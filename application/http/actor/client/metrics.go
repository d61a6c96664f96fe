package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "httpengine"

// Metrics holds the Prometheus collectors a Client reports to.
// A nil *Metrics records nothing.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RedirectsTotal  prometheus.Counter
	UploadBytes     prometheus.Counter
	DownloadBytes   prometheus.Counter
	QueuedRequests  prometheus.Gauge
	DroppedRequests prometheus.Counter
}

// NewMetrics creates the collectors and registers them to reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of requests by verb and result",
			},
			[]string{"verb", "result"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Request latency histogram, redirects included",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
			},
			[]string{"verb"},
		),
		RedirectsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "redirects_total",
				Help:      "Total number of redirects followed",
			},
		),
		UploadBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upload_bytes_total",
				Help:      "Bytes of requests written",
			},
		),
		DownloadBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "download_bytes_total",
				Help:      "Bytes of response bodies read, before decompression",
			},
		),
		QueuedRequests: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "queued_requests",
				Help:      "Number of submitted requests waiting in queue",
			},
		),
		DroppedRequests: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dropped_requests_total",
				Help:      "Submitted requests dropped by Close before running",
			},
		),
	}
}

func (m *Metrics) recordRequest(verb, result string, uploaded, downloaded int64, durationSeconds float64) {
	if m == nil {
		return
	}

	m.RequestsTotal.WithLabelValues(verb, result).Inc()
	m.RequestDuration.WithLabelValues(verb).Observe(durationSeconds)
	m.UploadBytes.Add(float64(uploaded))
	m.DownloadBytes.Add(float64(downloaded))
}

func (m *Metrics) recordRedirect() {
	if m == nil {
		return
	}
	m.RedirectsTotal.Inc()
}

func (m *Metrics) setQueued(n uint) {
	if m == nil {
		return
	}
	m.QueuedRequests.Set(float64(n))
}

func (m *Metrics) recordDropped(n uint) {
	if m == nil {
		return
	}
	m.DroppedRequests.Add(float64(n))
}
