package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

// ordertool login --key 0x...
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign the relay's auth message and print the JWT",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		s.token = ""

		if _, err := s.authorization(ctx); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]string{
			"address": s.wallet.Address().Hex(),
			"token":   s.token,
		})
	},
}
