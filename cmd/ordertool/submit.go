package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/predictdash/predict-relay/internal/approval"
)

var (
	submitFlags         orderFlags
	submitApprove       bool
	submitSkipApprovals bool
)

func init() {
	submitFlags.register(submitCmd)
	submitCmd.Flags().BoolVar(&submitApprove, "approve", false, "send missing approvals before submitting")
	submitCmd.Flags().BoolVar(&submitSkipApprovals, "skip-approvals", false, "do not check approvals on chain")
	rootCmd.AddCommand(submitCmd)
}

// ordertool submit --market 12 --side buy --strategy market --quantity 10 --slippage-bps 100
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Check approvals, build, sign and submit an order through the relay",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := newSession(cmd)
		if err != nil {
			return err
		}

		authorization, err := s.authorization(ctx)
		if err != nil {
			return err
		}

		built, err := prepareOrder(ctx, s.relay, &submitFlags, s.wallet.Address())
		if err != nil {
			return err
		}

		if !submitSkipApprovals {
			chain, err := s.dialChain(ctx)
			if err != nil {
				return err
			}
			defer chain.Close()

			missing, err := s.planApprovals(ctx, chain, built)
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				if !submitApprove {
					return fmt.Errorf("order needs approvals first (rerun with --approve): %s", describe(missing))
				}
				if err := s.sendApprovals(ctx, chain, missing); err != nil {
					return err
				}
			}
		}

		if err := s.signer().Sign(built); err != nil {
			return err
		}

		resp, err := s.relay.CreateOrder(ctx, authorization, built.Payload())
		if err != nil {
			return err
		}
		s.logger.Info("order submitted", "order_id", resp.OrderID, "hash", built.Order.Hash)
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

func describe(missing []approval.Approval) string {
	parts := make([]string, len(missing))
	for i, a := range missing {
		parts[i] = a.Requirement.String()
	}
	return strings.Join(parts, "; ")
}
