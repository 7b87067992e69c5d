package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Catalog Types
// -----------------------------------------------------------------------------

// Category groups related markets (e.g. one election with a market per candidate).
type Category struct {
	ID          int64    `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	IsNegRisk   bool     `json:"isNegRisk"`
	Markets     []Market `json:"markets"`
}

// Market is a single tradeable question with its outcomes.
type Market struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Question         string    `json:"question"`
	Description      string    `json:"description,omitempty"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	ConditionID      string    `json:"conditionId"`
	Status           string    `json:"status"`
	IsNegRisk        bool      `json:"isNegRisk"`
	FeeRateBps       int       `json:"feeRateBps"`
	DecimalPrecision int       `json:"decimalPrecision"`
	CategorySlug     string    `json:"categorySlug,omitempty"`
	Outcomes         []Outcome `json:"outcomes"`
}

// Outcome is one side of a market ("Yes"/"No" or a named choice).
type Outcome struct {
	Name      string `json:"name"`
	IndexSet  int    `json:"indexSet"`
	OnChainID string `json:"onChainId"` // ERC-1155 position id
	Status    string `json:"status,omitempty"`
}

// FlatMarket is one (category, market) pair with outcomes reduced to names.
type FlatMarket struct {
	ID               int64    `json:"id"`
	ConditionID      string   `json:"conditionId"`
	Title            string   `json:"title"`
	Question         string   `json:"question"`
	Status           string   `json:"status"`
	IsNegRisk        bool     `json:"isNegRisk"`
	FeeRateBps       int      `json:"feeRateBps"`
	DecimalPrecision int      `json:"decimalPrecision"`
	CategoryID       int64    `json:"categoryId"`
	CategorySlug     string   `json:"categorySlug"`
	CategoryTitle    string   `json:"categoryTitle"`
	Outcomes         []string `json:"outcomes"`
}

// -----------------------------------------------------------------------------
// Orderbook Types
// -----------------------------------------------------------------------------

// PriceLevel is a [price, quantity] pair. It encodes as a two-element JSON array.
type PriceLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// UnmarshalJSON accepts [price, quantity] with numeric or string elements.
func (l *PriceLevel) UnmarshalJSON(data []byte) error {
	var pair []decimal.Decimal
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode price level: %w", err)
	}
	if len(pair) < 2 {
		return fmt.Errorf("decode price level: want 2 elements, got %d", len(pair))
	}
	l.Price, l.Quantity = pair[0], pair[1]
	return nil
}

// MarshalJSON writes the level back as a numeric pair.
func (l PriceLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal([]json.Number{
		json.Number(l.Price.String()),
		json.Number(l.Quantity.String()),
	})
}

// Orderbook holds both sides of a market's book for one outcome.
// Bids are sorted best (highest) first; asks best (lowest) first as the upstream sends them.
type Orderbook struct {
	MarketID          int64        `json:"marketId"`
	UpdateTimestampMs int64        `json:"updateTimestampMs"`
	Bids              []PriceLevel `json:"bids"`
	Asks              []PriceLevel `json:"asks"`
}

// -----------------------------------------------------------------------------
// Trading Types
// -----------------------------------------------------------------------------

// Side is the order direction as encoded in the signed order (0 buy, 1 sell).
type Side int

const (
	SideBuy  Side = 0
	SideSell Side = 1
)

func (s Side) String() string {
	if s == SideSell {
		return "SELL"
	}
	return "BUY"
}

// ParseSide parses "BUY"/"SELL" (any case) or "0"/"1".
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY", "0":
		return SideBuy, nil
	case "SELL", "1":
		return SideSell, nil
	}
	return SideBuy, fmt.Errorf("unknown side %q", s)
}

// UnmarshalJSON accepts either the numeric or the string form.
func (s *Side) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n != int(SideBuy) && n != int(SideSell) {
			return fmt.Errorf("unknown side %d", n)
		}
		*s = Side(n)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("decode side: %w", err)
	}
	parsed, err := ParseSide(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// SignedOrder is the order struct as it was signed and submitted.
type SignedOrder struct {
	Hash        string `json:"hash,omitempty"`
	Maker       string `json:"maker"`
	Signer      string `json:"signer"`
	TokenID     string `json:"tokenId"`
	MakerAmount string `json:"makerAmount"`
	TakerAmount string `json:"takerAmount"`
	Side        Side   `json:"side"`
}

// Order is an open or historical order owned by the authenticated account.
type Order struct {
	ID           string      `json:"id"`
	MarketID     int64       `json:"marketId"`
	Status       string      `json:"status"`
	Strategy     string      `json:"strategy,omitempty"`
	Amount       string      `json:"amount,omitempty"`
	AmountFilled string      `json:"amountFilled,omitempty"`
	Order        SignedOrder `json:"order"`
}

// Position is an outcome-token holding of the authenticated account.
type Position struct {
	ID       string  `json:"id"`
	MarketID int64   `json:"marketId"`
	Outcome  Outcome `json:"outcome"`
	Amount   string  `json:"amount"`
	ValueUSD string  `json:"valueUsd,omitempty"`
}

// MarketSummary is the market information attached to orders and positions.
type MarketSummary struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Question    string   `json:"question"`
	ConditionID string   `json:"conditionId"`
	Status      string   `json:"status"`
	Outcomes    []string `json:"outcomes"`
}

// Summary reduces a market to the fields shown next to orders and positions.
func (m *Market) Summary() MarketSummary {
	return MarketSummary{
		ID:          m.ID,
		Title:       m.Title,
		Question:    m.Question,
		ConditionID: m.ConditionID,
		Status:      m.Status,
		Outcomes:    outcomeNames(m.Outcomes),
	}
}
