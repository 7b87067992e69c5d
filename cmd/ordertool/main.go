// Command ordertool runs the order workflow against a relay: log in with a
// wallet, plan and send token approvals, then build, sign and submit orders.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/predictdash/predict-relay/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "ordertool",
	Short: "Build, approve and submit orders through a predict relay",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to config file")
	flags.String("relay", "", "relay base URL (default $"+envRelayURL+" or http://localhost:<server.port>)")
	flags.String("key", "", "private key hex or key file (default $"+envPrivateKey+")")
	flags.String("token", "", "JWT from a previous login (default $"+envToken+")")
	flags.Duration("timeout", 5*time.Minute, "overall command timeout")
	flags.Bool("debug", false, "enable debug logging")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
