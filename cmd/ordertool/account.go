package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(accountCmd)
}

// ordertool account --token $PREDICT_JWT
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show the authenticated account",

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

		account, err := s.relay.GetAccount(ctx, authorization)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), account)
	},
}
