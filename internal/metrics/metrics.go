package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application collectors. Each instance owns its registry
// so tests can build routers without colliding on the global one.
type Metrics struct {
	Registry *prometheus.Registry

	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	AuthAttemptsTotal *prometheus.CounterVec
	InquiriesTotal    *prometheus.CounterVec
	ImagesUploaded    prometheus.Counter
}

// New registers every collector under prefix.
func New(prefix string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		AuthAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_auth_attempts_total",
				Help: "Register and login attempts by outcome",
			},
			[]string{"operation", "result"},
		),
		InquiriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_inquiries_total",
				Help: "Inquiries received by kind",
			},
			[]string{"kind"},
		),
		ImagesUploaded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_images_uploaded_total",
				Help: "Images stored on the media host",
			},
		),
	}
}
