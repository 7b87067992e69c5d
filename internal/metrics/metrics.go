package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var HTTPRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "predict_relay_http_requests_total",
		Help: "Inbound relay requests by route and status code.",
	}, []string{"method", "route", "status"})

var HTTPRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "predict_relay_http_request_duration_seconds",
		Help:    "Inbound relay request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

var UpstreamRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "predict_relay_upstream_requests_total",
		Help: "Calls to the upstream API by method and status code (0 = transport error).",
	}, []string{"method", "status"})

var UpstreamRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "predict_relay_upstream_request_duration_seconds",
		Help:    "Upstream API call latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

var PollCyclesTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "predict_relay_poll_cycles_total",
		Help: "Completed orderbook poll cycles.",
	})

var PollErrorsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "predict_relay_poll_errors_total",
		Help: "Orderbook fetches that failed during polling.",
	})

var StreamSubscribers = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "predict_relay_stream_subscribers",
		Help: "Open websocket orderbook subscriptions.",
	})

var MarketDetailFailuresTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "predict_relay_market_detail_failures_total",
		Help: "Market detail fetches that failed during fan-out.",
	})

// ObserveHTTP records one inbound relay request.
func ObserveHTTP(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveUpstream records one upstream call. status is 0 for transport errors.
func ObserveUpstream(method string, status int, d time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	UpstreamRequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		UpstreamRequestsTotal,
		UpstreamRequestDuration,
		PollCyclesTotal,
		PollErrorsTotal,
		StreamSubscribers,
		MarketDetailFailuresTotal,
	)
}
