package approval

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// MaxAllowance is the allowance granted by approve, so repeat buys need no
// further approvals.
var MaxAllowance = new(big.Int).Set(math.MaxBig256)

// Approval is a transaction that satisfies a Requirement.
type Approval struct {
	Requirement Requirement
	Method      string // "approve" or "setApprovalForAll"
	To          common.Address
	Data        []byte
	Current     *big.Int // current allowance; nil for KindApprovalAll
}

// Checker reads approval state from the chain.
type Checker struct {
	caller ethereum.ContractCaller
}

// NewChecker creates a Checker. *ethclient.Client satisfies ContractCaller.
func NewChecker(caller ethereum.ContractCaller) *Checker {
	return &Checker{caller: caller}
}

// Plan returns the approvals owner still needs, in requirement order.
// Satisfied requirements are left out; duplicates are checked once.
func (c *Checker) Plan(ctx context.Context, owner common.Address, reqs []Requirement) ([]Approval, error) {
	var plan []Approval
	seen := make(map[string]bool, len(reqs))

	for _, req := range reqs {
		key := string(req.Kind) + req.Token.Hex() + req.Spender.Hex()
		if seen[key] {
			continue
		}
		seen[key] = true

		switch req.Kind {
		case KindAllowance:
			current, err := c.Allowance(ctx, req.Token, owner, req.Spender)
			if err != nil {
				return nil, err
			}
			if req.Amount != nil && current.Cmp(req.Amount) >= 0 {
				continue
			}
			data, err := erc20ABI.Pack("approve", req.Spender, MaxAllowance)
			if err != nil {
				return nil, fmt.Errorf("pack approve: %w", err)
			}
			plan = append(plan, Approval{
				Requirement: req,
				Method:      "approve",
				To:          req.Token,
				Data:        data,
				Current:     current,
			})

		case KindApprovalAll:
			approved, err := c.IsApprovedForAll(ctx, req.Token, owner, req.Spender)
			if err != nil {
				return nil, err
			}
			if approved {
				continue
			}
			data, err := erc1155ABI.Pack("setApprovalForAll", req.Spender, true)
			if err != nil {
				return nil, fmt.Errorf("pack setApprovalForAll: %w", err)
			}
			plan = append(plan, Approval{
				Requirement: req,
				Method:      "setApprovalForAll",
				To:          req.Token,
				Data:        data,
			})

		default:
			return nil, fmt.Errorf("unknown approval kind %q", req.Kind)
		}
	}
	return plan, nil
}

// Allowance returns the ERC-20 allowance owner granted spender.
func (c *Checker) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	out, err := c.call(ctx, token, "allowance", erc20Call, owner, spender)
	if err != nil {
		return nil, fmt.Errorf("query allowance: %w", err)
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("query allowance: unexpected result %T", out[0])
	}
	return v, nil
}

// IsApprovedForAll reports whether operator may move owner's ERC-1155 tokens.
func (c *Checker) IsApprovedForAll(ctx context.Context, token, owner, operator common.Address) (bool, error) {
	out, err := c.call(ctx, token, "isApprovedForAll", erc1155Call, owner, operator)
	if err != nil {
		return false, fmt.Errorf("query isApprovedForAll: %w", err)
	}
	v, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("query isApprovedForAll: unexpected result %T", out[0])
	}
	return v, nil
}

type contractKind int

const (
	erc20Call contractKind = iota
	erc1155Call
)

func (c *Checker) call(ctx context.Context, to common.Address, method string, kind contractKind, args ...any) ([]any, error) {
	parsed := erc20ABI
	if kind == erc1155Call {
		parsed = erc1155ABI
	}

	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	raw, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	out, err := parsed.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return out, nil
}
