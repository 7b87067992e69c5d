// Package poller implements the server-side orderbook poller.
//
// The poller:
//   - Polls the upstream orderbook of every market with a live subscriber
//   - Runs one cycle immediately on start, then on every tick
//   - Bounds concurrent upstream requests with a semaphore
//   - Hands each snapshot to a handler (the stream hub)
package poller
