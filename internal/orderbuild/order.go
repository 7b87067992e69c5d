package orderbuild

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/predictdash/predict-relay/internal/model"
)

// Strategy is how the exchange should treat the order.
type Strategy string

const (
	StrategyLimit  Strategy = "LIMIT"
	StrategyMarket Strategy = "MARKET"
)

// ParseStrategy parses "limit"/"market" (any case).
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToUpper(strings.TrimSpace(s))) {
	case StrategyLimit:
		return StrategyLimit, nil
	case StrategyMarket:
		return StrategyMarket, nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// SignatureTypeEOA marks orders signed directly by the maker's key.
const SignatureTypeEOA = 0

// Order is the exchange order struct. Integer fields are decimal strings.
type Order struct {
	Salt          string     `json:"salt"`
	Maker         string     `json:"maker"`
	Signer        string     `json:"signer"`
	Taker         string     `json:"taker"`
	TokenID       string     `json:"tokenId"`
	MakerAmount   string     `json:"makerAmount"`
	TakerAmount   string     `json:"takerAmount"`
	Expiration    string     `json:"expiration"`
	Nonce         string     `json:"nonce"`
	FeeRateBps    string     `json:"feeRateBps"`
	Side          model.Side `json:"side"`
	SignatureType int        `json:"signatureType"`
	Signature     string     `json:"signature,omitempty"`
	Hash          string     `json:"hash,omitempty"`
}

// Request describes the order a user wants to place.
type Request struct {
	Market      model.Market
	Outcome     string // outcome name, e.g. "Yes" or "No"
	Side        model.Side
	Strategy    Strategy
	Price       decimal.Decimal // limit orders only
	Quantity    decimal.Decimal
	Book        *model.Orderbook // market orders only; the traded outcome's book
	SlippageBps int              // market orders only
	Maker       common.Address
	Expiration  time.Time // zero means no expiry
}

// Built is an unsigned order with the amounts it was derived from.
type Built struct {
	Order    Order
	Amounts  Amounts
	Strategy Strategy
	NegRisk  bool
	Slippage int
}

// Builder turns requests into unsigned orders.
type Builder struct {
	salt func() (*big.Int, error)
}

// NewBuilder creates a Builder with a random salt source.
func NewBuilder() *Builder {
	return &Builder{salt: randomSalt}
}

// Build validates req and derives the unsigned order.
func (b *Builder) Build(req Request) (*Built, error) {
	tokenID, err := TokenID(req.Market, req.Outcome)
	if err != nil {
		return nil, err
	}
	if req.Maker == (common.Address{}) {
		return nil, errors.New("maker address is required")
	}

	var amounts Amounts
	switch req.Strategy {
	case StrategyLimit, "":
		req.Strategy = StrategyLimit
		amounts, err = LimitAmounts(req.Side, req.Price, req.Quantity, req.Market.DecimalPrecision)
	case StrategyMarket:
		if req.Book == nil {
			return nil, errors.New("market order requires an orderbook")
		}
		amounts, err = MarketAmounts(req.Side, *req.Book, req.Quantity, req.Market.DecimalPrecision, req.SlippageBps)
	default:
		return nil, fmt.Errorf("unknown strategy %q", req.Strategy)
	}
	if err != nil {
		return nil, fmt.Errorf("derive amounts: %w", err)
	}

	salt, err := b.salt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	var expiration int64
	if !req.Expiration.IsZero() {
		expiration = req.Expiration.Unix()
	}

	maker := req.Maker.Hex()
	return &Built{
		Order: Order{
			Salt:          salt.String(),
			Maker:         maker,
			Signer:        maker,
			Taker:         common.Address{}.Hex(),
			TokenID:       tokenID,
			MakerAmount:   amounts.MakerAmount.String(),
			TakerAmount:   amounts.TakerAmount.String(),
			Expiration:    strconv.FormatInt(expiration, 10),
			Nonce:         "0",
			FeeRateBps:    strconv.Itoa(req.Market.FeeRateBps),
			Side:          req.Side,
			SignatureType: SignatureTypeEOA,
		},
		Amounts:  amounts,
		Strategy: req.Strategy,
		NegRisk:  req.Market.IsNegRisk,
		Slippage: req.SlippageBps,
	}, nil
}

// TokenID returns the on-chain position id of the named outcome (case-insensitive).
func TokenID(m model.Market, outcome string) (string, error) {
	for _, o := range m.Outcomes {
		if strings.EqualFold(o.Name, outcome) {
			if o.OnChainID == "" {
				return "", fmt.Errorf("outcome %q of market %d has no token id", o.Name, m.ID)
			}
			return o.OnChainID, nil
		}
	}
	return "", fmt.Errorf("market %d has no outcome %q", m.ID, outcome)
}

// CreateOrderPayload is the body accepted under "data" by POST /orders.
type CreateOrderPayload struct {
	Order         Order    `json:"order"`
	PricePerShare string   `json:"pricePerShare"`
	Strategy      Strategy `json:"strategy"`
	SlippageBps   string   `json:"slippageBps,omitempty"`
}

// Payload assembles the submission body of a signed order.
func (b *Built) Payload() CreateOrderPayload {
	p := CreateOrderPayload{
		Order:         b.Order,
		PricePerShare: b.Amounts.PricePerShare.String(),
		Strategy:      b.Strategy,
	}
	if b.Strategy == StrategyMarket {
		p.SlippageBps = strconv.Itoa(b.Slippage)
	}
	return p
}

// randomSalt returns a random integer below 2^53 so it survives JavaScript clients.
func randomSalt() (*big.Int, error) {
	return rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 53))
}
