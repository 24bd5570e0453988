package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	initOnce sync.Once

	// HTTPRequestsTotal counts handled HTTP requests by method, path and status.
	HTTPRequestsTotal *prometheus.CounterVec

	// AuthFailuresTotal counts rejected authentication attempts (login and bearer).
	AuthFailuresTotal prometheus.Counter
)

// InitMetrics registers all collectors. Safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests handled.",
			},
			[]string{"method", "path", "status"},
		)
		AuthFailuresTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "auth_failures_total",
				Help: "Total number of failed authentication attempts.",
			},
		)
		prometheus.MustRegister(HTTPRequestsTotal, AuthFailuresTotal)
	})
}
