package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// InvertForNo returns the orderbook as seen from the "No" outcome.
// Every price p becomes 1-p. A Yes ask is a No bid and vice versa, so the
// sides swap; both resulting sides are sorted by price descending.
// The input is not modified.
func InvertForNo(ob Orderbook) Orderbook {
	return Orderbook{
		MarketID:          ob.MarketID,
		UpdateTimestampMs: ob.UpdateTimestampMs,
		Bids:              complementLevels(ob.Asks),
		Asks:              complementLevels(ob.Bids),
	}
}

func complementLevels(levels []PriceLevel) []PriceLevel {
	out := make([]PriceLevel, len(levels))
	for i, l := range levels {
		out[i] = PriceLevel{
			Price:    one.Sub(l.Price),
			Quantity: l.Quantity,
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price.GreaterThan(out[j].Price)
	})
	return out
}

// BestBid returns the highest bid, or false when there are no bids.
func (ob *Orderbook) BestBid() (PriceLevel, bool) {
	var best PriceLevel
	found := false
	for _, l := range ob.Bids {
		if !found || l.Price.GreaterThan(best.Price) {
			best, found = l, true
		}
	}
	return best, found
}

// BestAsk returns the lowest ask, or false when there are no asks.
func (ob *Orderbook) BestAsk() (PriceLevel, bool) {
	var best PriceLevel
	found := false
	for _, l := range ob.Asks {
		if !found || l.Price.LessThan(best.Price) {
			best, found = l, true
		}
	}
	return best, found
}
