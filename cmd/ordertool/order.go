package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/predictdash/predict-relay/internal/api"
	"github.com/predictdash/predict-relay/internal/model"
	"github.com/predictdash/predict-relay/internal/orderbuild"
)

// orderFlags are the order parameters shared by build, approvals and submit.
type orderFlags struct {
	marketID    int64
	outcome     string
	side        string
	strategy    string
	price       string
	quantity    string
	slippageBps int
	expiry      time.Duration
}

func (f *orderFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Int64Var(&f.marketID, "market", 0, "market id")
	fs.StringVar(&f.outcome, "outcome", "Yes", "outcome name")
	fs.StringVar(&f.side, "side", "buy", "buy or sell")
	fs.StringVar(&f.strategy, "strategy", "limit", "limit or market")
	fs.StringVar(&f.price, "price", "", "limit price per share, between 0 and 1")
	fs.StringVar(&f.quantity, "quantity", "", "number of shares")
	fs.IntVar(&f.slippageBps, "slippage-bps", 0, "market orders: price tolerance in basis points")
	fs.DurationVar(&f.expiry, "expiry", 0, "order lifetime, 0 for no expiry")
}

// request parses the flags. The market and book are filled in later.
func (f *orderFlags) request(maker common.Address, now time.Time) (orderbuild.Request, error) {
	if f.marketID <= 0 {
		return orderbuild.Request{}, errors.New("--market is required")
	}
	side, err := model.ParseSide(f.side)
	if err != nil {
		return orderbuild.Request{}, err
	}
	strategy, err := orderbuild.ParseStrategy(f.strategy)
	if err != nil {
		return orderbuild.Request{}, err
	}
	quantity, err := decimal.NewFromString(f.quantity)
	if err != nil {
		return orderbuild.Request{}, fmt.Errorf("parse --quantity: %w", err)
	}

	req := orderbuild.Request{
		Outcome:     f.outcome,
		Side:        side,
		Strategy:    strategy,
		Quantity:    quantity,
		SlippageBps: f.slippageBps,
		Maker:       maker,
	}
	if strategy == orderbuild.StrategyLimit {
		if req.Price, err = decimal.NewFromString(f.price); err != nil {
			return orderbuild.Request{}, fmt.Errorf("parse --price: %w", err)
		}
	}
	if f.expiry > 0 {
		req.Expiration = now.Add(f.expiry)
	}
	return req, nil
}

// relayReader is the part of the relay client used to price orders.
type relayReader interface {
	GetMarket(ctx context.Context, id int64) (*model.Market, error)
	Forward(ctx context.Context, req api.Request) (*api.Response, error)
}

// prepareOrder fetches what the order needs from the relay and builds it unsigned.
func prepareOrder(ctx context.Context, relay relayReader, f *orderFlags, maker common.Address) (*orderbuild.Built, error) {
	req, err := f.request(maker, time.Now())
	if err != nil {
		return nil, err
	}

	market, err := relay.GetMarket(ctx, f.marketID)
	if err != nil {
		return nil, err
	}
	req.Market = *market

	if req.Strategy == orderbuild.StrategyMarket {
		book, err := fetchOrderbook(ctx, relay, f.marketID, bookOutcome(*market, f.outcome))
		if err != nil {
			return nil, err
		}
		req.Book = book
	}

	return orderbuild.NewBuilder().Build(req)
}

// bookOutcome maps an outcome name to the relay's orderbook view. The second
// outcome of a binary market trades on the inverted book.
func bookOutcome(m model.Market, outcome string) string {
	for i, o := range m.Outcomes {
		if strings.EqualFold(o.Name, outcome) && i == 1 {
			return "no"
		}
	}
	return "yes"
}

func fetchOrderbook(ctx context.Context, relay relayReader, marketID int64, outcome string) (*model.Orderbook, error) {
	resp, err := relay.Forward(ctx, api.Request{
		Method:   http.MethodGet,
		Path:     "/orderbook/" + strconv.FormatInt(marketID, 10),
		RawQuery: url.Values{"outcome": {outcome}}.Encode(),
	})
	if err != nil {
		return nil, fmt.Errorf("get orderbook: %w", err)
	}
	if err := resp.Err(); err != nil {
		return nil, fmt.Errorf("get orderbook: %w", err)
	}

	var env api.Envelope[model.Orderbook]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("decode orderbook: %w", err)
	}
	if !env.Success {
		return nil, fmt.Errorf("get orderbook: %s", env.Message)
	}
	return &env.Data, nil
}
