package main

import (
	"github.com/spf13/cobra"
)

var cancelIDs []string

func init() {
	cancelCmd.Flags().StringSliceVar(&cancelIDs, "id", nil, "order id to cancel (repeatable or comma separated)")
	_ = cancelCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(cancelCmd)
}

// ordertool cancel --id 8812 --id 8813
var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel open orders through the relay",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := newAccountSession(cmd)
		if err != nil {
			return err
		}

		authorization, err := s.authorization(ctx)
		if err != nil {
			return err
		}

		if err := s.relay.RemoveOrders(ctx, authorization, cancelIDs); err != nil {
			return err
		}
		s.logger.Info("orders cancelled", "count", len(cancelIDs))
		return printJSON(cmd.OutOrStdout(), map[string][]string{"removed": cancelIDs})
	},
}
