package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/predictdash/predict-relay/internal/model"
)

// GetCategories fetches categories with their nested markets.
// query is forwarded as-is (status filters, pagination).
func (c *Client) GetCategories(ctx context.Context, query url.Values) ([]model.Category, error) {
	var categories []model.Category
	if err := c.get(ctx, "/categories", query, "", &categories); err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return categories, nil
}

// GetCategory fetches a single category by slug.
func (c *Client) GetCategory(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	if err := c.get(ctx, "/categories/"+url.PathEscape(slug), nil, "", &category); err != nil {
		return nil, fmt.Errorf("get category %s: %w", slug, err)
	}
	return &category, nil
}

// GetMarket fetches a single market by id.
func (c *Client) GetMarket(ctx context.Context, id int64) (*model.Market, error) {
	var market model.Market
	if err := c.get(ctx, "/markets/"+strconv.FormatInt(id, 10), nil, "", &market); err != nil {
		return nil, fmt.Errorf("get market %d: %w", id, err)
	}
	return &market, nil
}

// GetOrderbook fetches the orderbook of a market's first ("Yes") outcome.
func (c *Client) GetOrderbook(ctx context.Context, id int64) (*model.Orderbook, error) {
	var ob model.Orderbook
	if err := c.get(ctx, "/markets/"+strconv.FormatInt(id, 10)+"/orderbook", nil, "", &ob); err != nil {
		return nil, fmt.Errorf("get orderbook %d: %w", id, err)
	}
	if ob.MarketID == 0 {
		ob.MarketID = id
	}
	return &ob, nil
}
