package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"employee-portal/internal/domain"
)

// Metrics holds the Prometheus collectors of the portal. A nil *Metrics is
// valid and records nothing, which keeps tests free of registries.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec   // path, method, status
	HTTPLatency      *prometheus.HistogramVec // path, method
	StoreDuration    *prometheus.HistogramVec // op, result
	CredentialChecks *prometheus.CounterVec   // result: valid, invalid
}

// NewMetrics registers every collector on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Count of HTTP requests",
		}, []string{"path", "method", "status"}),
		HTTPLatency: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		StoreDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_store_operation_duration_seconds",
			Help:    "Duration of store operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "result"}), // op: create_employee, list_employees, find_admin ...
		CredentialChecks: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "portal_credential_checks_total",
			Help: "Admin credential checks by outcome",
		}, []string{"result"}),
	}
}

// ObserveStore records the duration of one store call started at start.
func (m *Metrics) ObserveStore(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.StoreDuration.WithLabelValues(op, Result(err)).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveVerify(valid bool) {
	if m == nil {
		return
	}
	res := "invalid"
	if valid {
		res = "valid"
	}
	m.CredentialChecks.WithLabelValues(res).Inc()
}

// Result buckets an error into a low-cardinality label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrDuplicateKey), errors.Is(err, domain.ErrVersionConflict):
		return "conflict"
	default:
		return "error"
	}
}
