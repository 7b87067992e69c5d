// Package api provides the client for the prediction-market REST API.
//
// Endpoints (relative to the configured base URL, e.g. https://api.predict.fun/v1):
//   - Catalog: /categories, /categories/{slug}, /markets/{id}, /markets/{id}/orderbook
//   - Account (JWT bearer): /orders, /orders/remove, /positions, /account, /account/referral
//   - Login: /auth/message, /auth
//
// Every request carries the platform key in x-api-key. Responses use the
// {success, data, message} envelope.
package api
