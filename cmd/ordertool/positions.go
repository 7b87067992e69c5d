package main

import (
	"github.com/spf13/cobra"
)

var positionsFlags listFlags

func init() {
	positionsFlags.register(positionsCmd, false)
	rootCmd.AddCommand(positionsCmd)
}

// ordertool positions --first 50
var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "List the account's positions",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		opts, err := positionsFlags.options()
		if err != nil {
			return err
		}

		s, err := newAccountSession(cmd)
		if err != nil {
			return err
		}

		authorization, err := s.authorization(ctx)
		if err != nil {
			return err
		}

		positions, err := s.relay.GetPositions(ctx, authorization, opts)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), positions)
	},
}
