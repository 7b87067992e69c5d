package market

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/predictdash/predict-relay/internal/model"
)

// DetailedOrder is an order with its market summary and derived price.
// Market is nil when the market could not be fetched.
type DetailedOrder struct {
	model.Order
	DisplayPrice decimal.Decimal      `json:"displayPrice"`
	Market       *model.MarketSummary `json:"market"`
}

// DetailedPosition is a position with its market summary.
type DetailedPosition struct {
	model.Position
	Market *model.MarketSummary `json:"market"`
}

// EnrichOrders attaches market summaries and display prices to orders.
// The returned error reports markets that could not be fetched; the orders
// are still returned in full.
func (d *Details) EnrichOrders(ctx context.Context, orders []model.Order) ([]DetailedOrder, error) {
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.MarketID)
	}
	markets, err := d.Fetch(ctx, ids)

	out := make([]DetailedOrder, 0, len(orders))
	for i := range orders {
		out = append(out, DetailedOrder{
			Order:        orders[i],
			DisplayPrice: orders[i].DisplayPrice(),
			Market:       summaryOf(markets[orders[i].MarketID]),
		})
	}
	return out, err
}

// EnrichPositions attaches market summaries to positions.
func (d *Details) EnrichPositions(ctx context.Context, positions []model.Position) ([]DetailedPosition, error) {
	ids := make([]int64, 0, len(positions))
	for _, p := range positions {
		ids = append(ids, p.MarketID)
	}
	markets, err := d.Fetch(ctx, ids)

	out := make([]DetailedPosition, 0, len(positions))
	for _, p := range positions {
		out = append(out, DetailedPosition{
			Position: p,
			Market:   summaryOf(markets[p.MarketID]),
		})
	}
	return out, err
}

func summaryOf(m *model.Market) *model.MarketSummary {
	if m == nil {
		return nil
	}
	s := m.Summary()
	return &s
}
