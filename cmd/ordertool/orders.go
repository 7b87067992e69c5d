package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/predictdash/predict-relay/internal/api"
)

// listFlags pages through account listings.
type listFlags struct {
	first  int
	after  string
	status string
}

func (f *listFlags) register(cmd *cobra.Command, withStatus bool) {
	flags := cmd.Flags()
	flags.IntVar(&f.first, "first", 0, "page size (0 = upstream default)")
	flags.StringVar(&f.after, "after", "", "cursor from the previous page")
	if withStatus {
		flags.StringVar(&f.status, "status", "", "filter by status, e.g. OPEN")
	}
}

func (f *listFlags) options() (api.ListOptions, error) {
	if f.first < 0 {
		return api.ListOptions{}, errors.New("--first must be >= 0")
	}
	return api.ListOptions{First: f.first, After: f.after, Status: f.status}, nil
}

var ordersFlags listFlags

func init() {
	ordersFlags.register(ordersCmd, true)
	rootCmd.AddCommand(ordersCmd)
}

// ordertool orders --status OPEN --first 20
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List the account's orders",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		opts, err := ordersFlags.options()
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

		orders, err := s.relay.GetOrders(ctx, authorization, opts)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), orders)
	},
}
