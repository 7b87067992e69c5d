// Package relay implements the HTTP surface the dashboard talks to.
//
// Most routes forward to the upstream API unchanged, attaching the API key
// and passing the caller's bearer token through. A few reshape the answer:
// /api/markets flattens categories into a market list, /api/orderbook/:id
// can present the "No" outcome's view, and the detailed order and position
// routes attach market summaries. Failures are reported in one envelope,
// {success:false, error, message}, where message is localized.
package relay
