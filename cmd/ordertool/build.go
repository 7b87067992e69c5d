package main

import (
	"github.com/spf13/cobra"
)

var buildFlags orderFlags

func init() {
	buildFlags.register(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

// ordertool build --market 12 --side buy --price 0.42 --quantity 10
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build and sign an order and print the submission payload",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := newSession(cmd)
		if err != nil {
			return err
		}

		built, err := prepareOrder(ctx, s.relay, &buildFlags, s.wallet.Address())
		if err != nil {
			return err
		}
		if err := s.signer().Sign(built); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), built.Payload())
	},
}
