// Package model defines the prediction-market entities the relay passes through
// and the pure transforms applied to them.
//
// Conventions:
//   - Prices: decimal fractions of one collateral unit (0.00-1.00)
//   - Amounts: base-unit integer strings with 18 decimals, as signed on chain
//   - IDs: int64 for markets and categories, string for orders and positions
package model
