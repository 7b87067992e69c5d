// Package orderbuild constructs and signs exchange orders.
//
// Prices and quantities are decimal strings from the user; the exchange
// works in 18-decimal base units. Limit orders take the user's price;
// market orders derive a protective limit price by walking the book.
// Orders are signed as EIP-712 typed data against the exchange contract
// (or the neg-risk exchange for multi-outcome categories).
package orderbuild
