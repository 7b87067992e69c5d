package orderbuild

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/predictdash/predict-relay/internal/model"
)

const (
	// WeiDecimals is the fixed-point scale of collateral and share amounts.
	WeiDecimals = 18

	// QuantityDecimals is the finest share quantity accepted (1e13 wei).
	QuantityDecimals = 5

	// DefaultPricePrecision applies when a market reports no precision.
	DefaultPricePrecision = 2

	maxSlippageBps = 10_000
)

// Errors
var (
	ErrPriceOutOfRange       = errors.New("price must be between 0 and 1")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrInvalidSlippage       = errors.New("slippage must be between 0 and 10000 bps")
)

var bpsDivisor = decimal.NewFromInt(maxSlippageBps)

// Amounts are the signed token amounts of an order and the values they came from.
type Amounts struct {
	Price         decimal.Decimal // limit price after truncation
	Quantity      decimal.Decimal // shares after truncation
	PricePerShare *big.Int
	MakerAmount   *big.Int
	TakerAmount   *big.Int
}

// ToWei scales d to base units, dropping anything below 1 wei.
func ToWei(d decimal.Decimal) *big.Int {
	return d.Shift(WeiDecimals).BigInt()
}

// FromWei converts base units back to a decimal.
func FromWei(v *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(v, -WeiDecimals)
}

// TruncatePrice drops digits beyond precision (DefaultPricePrecision when <= 0)
// and checks the result lies strictly between 0 and 1.
func TruncatePrice(price decimal.Decimal, precision int) (decimal.Decimal, error) {
	p := price.Truncate(int32(pricePrecision(precision)))
	if !p.IsPositive() || p.GreaterThanOrEqual(one) {
		return decimal.Zero, fmt.Errorf("%w: got %s", ErrPriceOutOfRange, price)
	}
	return p, nil
}

// TruncateQuantity drops digits beyond QuantityDecimals and checks the
// result is positive.
func TruncateQuantity(quantity decimal.Decimal) (decimal.Decimal, error) {
	q := quantity.Truncate(QuantityDecimals)
	if !q.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: got %s", ErrInvalidQuantity, quantity)
	}
	return q, nil
}

// LimitAmounts derives the maker and taker amounts of a limit order.
// A buy gives price*quantity collateral for quantity shares; a sell gives
// quantity shares for price*quantity collateral.
func LimitAmounts(side model.Side, price, quantity decimal.Decimal, precision int) (Amounts, error) {
	p, err := TruncatePrice(price, precision)
	if err != nil {
		return Amounts{}, err
	}
	q, err := TruncateQuantity(quantity)
	if err != nil {
		return Amounts{}, err
	}

	collateral := ToWei(p.Mul(q))
	shares := ToWei(q)

	a := Amounts{
		Price:         p,
		Quantity:      q,
		PricePerShare: ToWei(p),
	}
	if side == model.SideSell {
		a.MakerAmount, a.TakerAmount = shares, collateral
	} else {
		a.MakerAmount, a.TakerAmount = collateral, shares
	}
	return a, nil
}

// MarketAmounts derives a market order by walking the opposite side of book
// (asks for a buy, bids for a sell) best level first until quantity is
// covered. The worst price reached becomes the order's limit price, widened
// by slippageBps in the taker's disfavour and clamped inside (0, 1).
func MarketAmounts(side model.Side, book model.Orderbook, quantity decimal.Decimal, precision, slippageBps int) (Amounts, error) {
	if slippageBps < 0 || slippageBps >= maxSlippageBps {
		return Amounts{}, fmt.Errorf("%w: got %d", ErrInvalidSlippage, slippageBps)
	}
	q, err := TruncateQuantity(quantity)
	if err != nil {
		return Amounts{}, err
	}

	worst, err := walkBook(side, book, q)
	if err != nil {
		return Amounts{}, err
	}

	prec := int32(pricePrecision(precision))
	tick := decimal.New(1, -prec)
	slip := decimal.NewFromInt(int64(slippageBps)).Div(bpsDivisor)

	var price decimal.Decimal
	if side == model.SideSell {
		price = worst.Mul(one.Sub(slip)).RoundFloor(prec)
	} else {
		price = worst.Mul(one.Add(slip)).RoundCeil(prec)
	}
	if price.GreaterThanOrEqual(one) {
		price = one.Sub(tick)
	}
	if !price.IsPositive() {
		price = tick
	}

	return LimitAmounts(side, price, q, precision)
}

// walkBook returns the worst price needed to fill quantity.
func walkBook(side model.Side, book model.Orderbook, quantity decimal.Decimal) (decimal.Decimal, error) {
	var levels []model.PriceLevel
	if side == model.SideSell {
		levels = sortedLevels(book.Bids, true)
	} else {
		levels = sortedLevels(book.Asks, false)
	}

	remaining := quantity
	var worst decimal.Decimal
	for _, l := range levels {
		if !l.Quantity.IsPositive() {
			continue
		}
		worst = l.Price
		remaining = remaining.Sub(l.Quantity)
		if !remaining.IsPositive() {
			return worst, nil
		}
	}
	return decimal.Zero, fmt.Errorf("%w: %s of %s shares available",
		ErrInsufficientLiquidity, quantity.Sub(remaining), quantity)
}

func sortedLevels(levels []model.PriceLevel, descending bool) []model.PriceLevel {
	out := make([]model.PriceLevel, len(levels))
	copy(out, levels)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].Price.GreaterThan(out[j].Price)
		}
		return out[i].Price.LessThan(out[j].Price)
	})
	return out
}

func pricePrecision(precision int) int {
	if precision <= 0 {
		return DefaultPricePrecision
	}
	return precision
}

var one = decimal.NewFromInt(1)
