package approval

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/predictdash/predict-relay/internal/config"
	"github.com/predictdash/predict-relay/internal/model"
)

// Kind is the type of approval.
type Kind string

const (
	KindAllowance   Kind = "erc20-allowance"
	KindApprovalAll Kind = "erc1155-approval-for-all"
)

// Contracts are the on-chain addresses orders touch.
type Contracts struct {
	Collateral        common.Address
	ConditionalTokens common.Address
	Exchange          common.Address
	NegRiskExchange   common.Address
	NegRiskAdapter    common.Address
}

// ContractsFromConfig validates and converts the chain configuration.
func ContractsFromConfig(cfg config.ChainConfig) (Contracts, error) {
	if err := cfg.ValidateChain(); err != nil {
		return Contracts{}, fmt.Errorf("chain config: %w", err)
	}
	return Contracts{
		Collateral:        common.HexToAddress(cfg.Collateral),
		ConditionalTokens: common.HexToAddress(cfg.ConditionalTokens),
		Exchange:          common.HexToAddress(cfg.Exchange),
		NegRiskExchange:   common.HexToAddress(cfg.NegRiskExchange),
		NegRiskAdapter:    common.HexToAddress(cfg.NegRiskAdapter),
	}, nil
}

// Requirement is one approval an order depends on.
type Requirement struct {
	Kind    Kind
	Token   common.Address // ERC-20 collateral or ERC-1155 conditional tokens
	Spender common.Address // spender or operator
	Amount  *big.Int       // minimum allowance; nil for KindApprovalAll
}

func (r Requirement) String() string {
	if r.Kind == KindAllowance {
		return fmt.Sprintf("allowance of %s on %s for %s", r.Amount, r.Token.Hex(), r.Spender.Hex())
	}
	return fmt.Sprintf("operator approval on %s for %s", r.Token.Hex(), r.Spender.Hex())
}

// Requirements lists the approvals an order needs.
func Requirements(side model.Side, makerAmount *big.Int, negRisk bool, c Contracts) []Requirement {
	exchange := c.Exchange
	if negRisk {
		exchange = c.NegRiskExchange
	}

	if side == model.SideBuy {
		return []Requirement{{
			Kind:    KindAllowance,
			Token:   c.Collateral,
			Spender: exchange,
			Amount:  new(big.Int).Set(makerAmount),
		}}
	}

	reqs := []Requirement{{
		Kind:    KindApprovalAll,
		Token:   c.ConditionalTokens,
		Spender: exchange,
	}}
	if negRisk {
		reqs = append(reqs, Requirement{
			Kind:    KindApprovalAll,
			Token:   c.ConditionalTokens,
			Spender: c.NegRiskAdapter,
		})
	}
	return reqs
}
