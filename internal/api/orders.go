package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/predictdash/predict-relay/internal/model"
)

// ErrNoAuthorization is returned by account calls made without a bearer token.
var ErrNoAuthorization = errors.New("authorization required")

func (o ListOptions) values() url.Values {
	query := url.Values{}
	if o.First > 0 {
		query.Set("first", strconv.Itoa(o.First))
	}
	if o.After != "" {
		query.Set("after", o.After)
	}
	if o.Status != "" {
		query.Set("status", o.Status)
	}
	return query
}

// GetOrders fetches the account's orders.
func (c *Client) GetOrders(ctx context.Context, authorization string, opts ListOptions) ([]model.Order, error) {
	if authorization == "" {
		return nil, ErrNoAuthorization
	}
	var orders []model.Order
	if err := c.get(ctx, "/orders", opts.values(), authorization, &orders); err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}
	return orders, nil
}

// GetPositions fetches the account's positions.
func (c *Client) GetPositions(ctx context.Context, authorization string, opts ListOptions) ([]model.Position, error) {
	if authorization == "" {
		return nil, ErrNoAuthorization
	}
	var positions []model.Position
	if err := c.get(ctx, "/positions", opts.values(), authorization, &positions); err != nil {
		return nil, fmt.Errorf("get positions: %w", err)
	}
	return positions, nil
}

// GetAccount fetches the authenticated account.
func (c *Client) GetAccount(ctx context.Context, authorization string) (*Account, error) {
	if authorization == "" {
		return nil, ErrNoAuthorization
	}
	var account Account
	if err := c.get(ctx, "/account", nil, authorization, &account); err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &account, nil
}

// CreateOrder submits a signed order payload. It is never retried.
func (c *Client) CreateOrder(ctx context.Context, authorization string, payload any) (*CreateOrderResponse, error) {
	if authorization == "" {
		return nil, ErrNoAuthorization
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	var resp CreateOrderResponse
	if err := c.post(ctx, "/orders", CreateOrderRequest{Data: data}, authorization, &resp); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &resp, nil
}

// RemoveOrders cancels orders by id.
func (c *Client) RemoveOrders(ctx context.Context, authorization string, ids []string) error {
	if authorization == "" {
		return ErrNoAuthorization
	}
	if len(ids) == 0 {
		return errors.New("remove orders: no ids given")
	}
	req := RemoveOrdersRequest{Data: RemoveOrdersData{IDs: ids}}
	if err := c.post(ctx, "/orders/remove", req, authorization, nil); err != nil {
		return fmt.Errorf("remove orders: %w", err)
	}
	return nil
}
