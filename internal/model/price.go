package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DisplayPricePlaces is the rounding applied to derived display prices.
const DisplayPricePlaces = 4

// DisplayPrice derives the per-share price of an order from its token amounts.
// A buy pays makerAmount collateral for takerAmount shares; a sell gives
// makerAmount shares for takerAmount collateral.
// Returns zero for empty or invalid amounts, or a zero divisor.
func DisplayPrice(side Side, makerAmount, takerAmount string) decimal.Decimal {
	maker, ok := parseAmount(makerAmount)
	if !ok {
		return decimal.Zero
	}
	taker, ok := parseAmount(takerAmount)
	if !ok {
		return decimal.Zero
	}

	collateral, shares := maker, taker
	if side == SideSell {
		collateral, shares = taker, maker
	}
	if shares.IsZero() {
		return decimal.Zero
	}

	return collateral.DivRound(shares, DisplayPricePlaces+4).Round(DisplayPricePlaces)
}

// DisplayPrice of the order's signed amounts.
func (o *Order) DisplayPrice() decimal.Decimal {
	return DisplayPrice(o.Order.Side, o.Order.MakerAmount, o.Order.TakerAmount)
}

func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}
