package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"

	"github.com/predictdash/predict-relay/internal/approval"
	"github.com/predictdash/predict-relay/internal/orderbuild"
)

var (
	approvalsFlags orderFlags
	approvalsSend  bool
)

func init() {
	approvalsFlags.register(approvalsCmd)
	approvalsCmd.Flags().BoolVar(&approvalsSend, "send", false, "submit the missing approvals")
	rootCmd.AddCommand(approvalsCmd)
}

// ordertool approvals --market 12 --side sell --price 0.6 --quantity 10 --send
var approvalsCmd = &cobra.Command{
	Use:   "approvals",
	Short: "List the token approvals an order still needs",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := newSession(cmd)
		if err != nil {
			return err
		}

		built, err := prepareOrder(ctx, s.relay, &approvalsFlags, s.wallet.Address())
		if err != nil {
			return err
		}

		chain, err := s.dialChain(ctx)
		if err != nil {
			return err
		}
		defer chain.Close()

		missing, err := s.planApprovals(ctx, chain, built)
		if err != nil {
			return err
		}
		if err := printApprovals(cmd, missing); err != nil {
			return err
		}
		if !approvalsSend || len(missing) == 0 {
			return nil
		}
		return s.sendApprovals(ctx, chain, missing)
	},
}

func (s *session) dialChain(ctx context.Context) (*ethclient.Client, error) {
	if s.cfg.Chain.RPCURL == "" {
		return nil, errors.New("chain.rpc_url is required")
	}
	client, err := ethclient.DialContext(ctx, s.cfg.Chain.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial chain rpc: %w", err)
	}
	return client, nil
}

func (s *session) planApprovals(ctx context.Context, chain *ethclient.Client, built *orderbuild.Built) ([]approval.Approval, error) {
	contracts, err := approval.ContractsFromConfig(s.cfg.Chain)
	if err != nil {
		return nil, err
	}
	reqs := approval.Requirements(built.Order.Side, built.Amounts.MakerAmount, built.NegRisk, contracts)
	return approval.NewChecker(chain).Plan(ctx, s.wallet.Address(), reqs)
}

func (s *session) sendApprovals(ctx context.Context, chain *ethclient.Client, missing []approval.Approval) error {
	sender := approval.NewSender(chain, s.wallet.PrivateKey(), s.cfg.Chain.ChainID, s.logger)
	receipts, err := sender.Send(ctx, missing)
	for _, r := range receipts {
		s.logger.Info("approval mined", "tx", r.TxHash.Hex(), "block", r.BlockNumber)
	}
	return err
}

func printApprovals(cmd *cobra.Command, missing []approval.Approval) error {
	out := make([]map[string]string, 0, len(missing))
	for _, a := range missing {
		out = append(out, map[string]string{
			"requirement": a.Requirement.String(),
			"method":      a.Method,
			"to":          a.To.Hex(),
		})
	}
	return printJSON(cmd.OutOrStdout(), out)
}
