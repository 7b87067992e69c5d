package main

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	categoriesSlug   string
	categoriesStatus string
	categoriesFirst  int
)

func init() {
	flags := categoriesCmd.Flags()
	flags.StringVar(&categoriesSlug, "slug", "", "show a single category")
	flags.StringVar(&categoriesStatus, "status", "", "filter by status, e.g. OPEN")
	flags.IntVar(&categoriesFirst, "first", 0, "page size (0 = upstream default)")
	rootCmd.AddCommand(categoriesCmd)
}

// ordertool categories --status OPEN
// ordertool categories --slug us-election
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories and their markets, or show one by slug",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := newPublicSession(cmd)
		if err != nil {
			return err
		}

		if categoriesSlug != "" {
			category, err := s.relay.GetCategory(ctx, categoriesSlug)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), category)
		}

		query := url.Values{}
		if categoriesStatus != "" {
			query.Set("status", categoriesStatus)
		}
		if categoriesFirst > 0 {
			query.Set("first", strconv.Itoa(categoriesFirst))
		}
		categories, err := s.relay.GetCategories(ctx, query)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), categories)
	},
}
