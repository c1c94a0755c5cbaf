package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK             = "ok"
	OutcomeUnauthorized   = "unauthorized"
	OutcomeBadRequest     = "bad_request"
	OutcomeUnsupported    = "unsupported"
	OutcomeUpstreamFailed = "upstream_failed"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_relay_requests_total",
			Help: "Notify requests by outcome",
		},
		[]string{"outcome"}, // ok|unauthorized|bad_request|unsupported|upstream_failed
	)

	UpstreamDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notify_relay_upstream_duration_seconds",
			Help:    "Latency of Messaging API push calls",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		RequestsTotal,
		UpstreamDuration,
	)
}
