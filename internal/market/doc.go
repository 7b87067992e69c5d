// Package market fetches market details for the relay's enriched views.
//
// Orders and positions returned by the upstream carry only a market id.
// Details resolves those ids to full markets in parallel, caching results
// for a short time so repeated dashboard refreshes do not refetch them.
package market
