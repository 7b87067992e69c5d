// Package approval works out which token approvals an order needs and
// submits the missing ones.
//
// Buying spends ERC-20 collateral, so the exchange needs an allowance of at
// least the order's maker amount. Selling transfers ERC-1155 outcome tokens,
// so the exchange (and, for neg-risk markets, the neg-risk adapter) must be
// approved as an operator. Checker reads current chain state; Sender signs
// and submits approval transactions and waits for them to be mined.
package approval
