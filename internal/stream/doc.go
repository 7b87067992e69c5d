// Package stream pushes orderbook snapshots to dashboard clients over websocket.
//
// Clients connect to one market and outcome. The hub tracks which markets
// have subscribers, reports them to the poller, and fans each polled
// snapshot out to the subscribers of that market. A client that disconnects
// is unsubscribed; when a market loses its last subscriber the poller stops
// fetching it on the next cycle.
package stream
