package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type UpstreamMetricsCollector struct {
	Requests  *prometheus.CounterVec
	Fallbacks *prometheus.CounterVec
	Denials   prometheus.Counter
	Latency   *prometheus.HistogramVec
}

var (
	upstreamCollector *UpstreamMetricsCollector
	upstreamOnce      sync.Once
)

func getUpstreamCollector() *UpstreamMetricsCollector {
	upstreamOnce.Do(func() {
		upstreamCollector = &UpstreamMetricsCollector{
			Requests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "agriassist_upstream_requests_total",
					Help: "Upstream adapter calls by service and outcome",
				},
				[]string{"service", "outcome"},
			),
			Fallbacks: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "agriassist_fallback_total",
					Help: "Responses served by a fallback provider",
				},
				[]string{"service"},
			),
			Denials: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "agriassist_rate_limit_denied_total",
					Help: "Chat requests denied by the fixed-window rate limiter",
				},
			),
			Latency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "agriassist_upstream_duration_seconds",
					Help:    "Upstream adapter call duration in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"service"},
			),
		}
	})
	return upstreamCollector
}

func RecordUpstreamSuccess(service string) {
	getUpstreamCollector().Requests.WithLabelValues(service, "success").Inc()
}

func RecordUpstreamFailure(service string) {
	getUpstreamCollector().Requests.WithLabelValues(service, "error").Inc()
}

func RecordFallback(service string) {
	getUpstreamCollector().Fallbacks.WithLabelValues(service).Inc()
}

func RecordRateLimitDenial() {
	getUpstreamCollector().Denials.Inc()
}

func RecordUpstreamLatency(service string, seconds float64) {
	getUpstreamCollector().Latency.WithLabelValues(service).Observe(seconds)
}
