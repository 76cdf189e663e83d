package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CodesIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_codes_issued_total",
			Help: "Total number of verification code requests by outcome.",
		},
		[]string{"purpose", "result"},
	)

	CodeVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_code_verifications_total",
			Help: "Total number of verification code checks by outcome.",
		},
		[]string{"purpose", "result"},
	)

	AuthRegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Total number of registration attempts.",
		},
		[]string{"result"},
	)

	AuthLoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"result"},
	)

	TokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Total number of session tokens issued.",
		},
		[]string{"result"},
	)

	CodesPurgedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_codes_purged_total",
			Help: "Total number of expired verification codes removed.",
		},
	)
)

// MustRegister attaches every collector to the default registry with a
// constant service label. Collectors stay usable unregistered, so tests can
// record without calling this.
func MustRegister(serviceName string) {
	reg := prometheus.WrapRegistererWith(prometheus.Labels{"service": serviceName}, prometheus.DefaultRegisterer)
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		CodesIssuedTotal,
		CodeVerificationsTotal,
		AuthRegistrationsTotal,
		AuthLoginsTotal,
		TokensIssuedTotal,
		CodesPurgedTotal,
	)
}
