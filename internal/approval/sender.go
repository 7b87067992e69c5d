package approval

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrTransactionFailed is returned when an approval is mined but reverted.
var ErrTransactionFailed = errors.New("approval transaction reverted")

// Backend is what Sender needs from a node. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Sender submits approval transactions.
type Sender struct {
	backend Backend
	key     *ecdsa.PrivateKey
	chainID *big.Int
	logger  *slog.Logger
}

// NewSender creates a Sender signing with key on chainID.
func NewSender(backend Backend, key *ecdsa.PrivateKey, chainID int64, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{
		backend: backend,
		key:     key,
		chainID: big.NewInt(chainID),
		logger:  logger,
	}
}

// Send submits each approval in order and waits for it to be mined.
// It stops at the first failure; receipts of the approvals already mined
// are returned alongside the error.
func (s *Sender) Send(ctx context.Context, approvals []Approval) ([]*types.Receipt, error) {
	receipts := make([]*types.Receipt, 0, len(approvals))

	for _, a := range approvals {
		opts, err := bind.NewKeyedTransactorWithChainID(s.key, s.chainID)
		if err != nil {
			return receipts, fmt.Errorf("create transactor: %w", err)
		}
		opts.Context = ctx

		parsed := erc20ABI
		if a.Requirement.Kind == KindApprovalAll {
			parsed = erc1155ABI
		}
		contract := bind.NewBoundContract(a.To, parsed, s.backend, s.backend, s.backend)

		tx, err := contract.RawTransact(opts, a.Data)
		if err != nil {
			return receipts, fmt.Errorf("send %s to %s: %w", a.Method, a.To.Hex(), err)
		}
		s.logger.Info("approval submitted",
			"method", a.Method,
			"token", a.To.Hex(),
			"spender", a.Requirement.Spender.Hex(),
			"tx", tx.Hash().Hex(),
		)

		receipt, err := bind.WaitMined(ctx, s.backend, tx)
		if err != nil {
			return receipts, fmt.Errorf("wait for %s: %w", tx.Hash().Hex(), err)
		}
		receipts = append(receipts, receipt)
		if receipt.Status != types.ReceiptStatusSuccessful {
			return receipts, fmt.Errorf("%w: %s", ErrTransactionFailed, tx.Hash().Hex())
		}
	}
	return receipts, nil
}
