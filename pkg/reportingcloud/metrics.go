package reportingcloud

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors updated by every request.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the client collectors with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reportingcloud",
			Name:      "client_requests_total",
			Help:      "Requests sent to ReportingCloud by endpoint and status code.",
		}, []string{"method", "endpoint", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reportingcloud",
			Name:      "client_request_duration_seconds",
			Help:      "Latency of ReportingCloud requests.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"method", "endpoint"}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(method, endpoint string, status int, d time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, endpoint, code).Inc()
	m.duration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}
