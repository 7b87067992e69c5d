// Package metrics defines the Prometheus collectors exported by the relay.
//
// Metrics:
//   - predict_relay_http_requests_total / _duration_seconds: inbound relay routes
//   - predict_relay_upstream_requests_total / _duration_seconds: calls to the upstream API
//   - predict_relay_poll_cycles_total, predict_relay_poll_errors_total: orderbook poller
//   - predict_relay_stream_subscribers: open websocket subscriptions
//   - predict_relay_market_detail_failures_total: fan-out fetches that failed
package metrics
