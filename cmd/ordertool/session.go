package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/predictdash/predict-relay/internal/api"
	"github.com/predictdash/predict-relay/internal/auth"
	"github.com/predictdash/predict-relay/internal/config"
	"github.com/predictdash/predict-relay/internal/orderbuild"
)

const (
	envRelayURL   = "RELAY_URL"
	envPrivateKey = "PREDICT_PRIVATE_KEY"
	envToken      = "PREDICT_JWT"
)

// session is the state shared by every command.
type session struct {
	cfg    *config.RelayConfig
	relay  *api.Client
	wallet *auth.Wallet
	token  string
	logger *slog.Logger
}

// commandContext bounds a command by --timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return context.WithTimeout(cmd.Context(), timeout)
}

// newSession loads config and the wallet. Commands that sign need it.
func newSession(cmd *cobra.Command) (*session, error) {
	s, err := newPublicSession(cmd)
	if err != nil {
		return nil, err
	}
	if err := s.loadWallet(cmd); err != nil {
		return nil, err
	}
	return s, nil
}

// newAccountSession only needs a wallet when no token was supplied.
func newAccountSession(cmd *cobra.Command) (*session, error) {
	s, err := newPublicSession(cmd)
	if err != nil {
		return nil, err
	}
	if s.token != "" {
		return s, nil
	}
	if err := s.loadWallet(cmd); err != nil {
		return nil, err
	}
	return s, nil
}

// newPublicSession is enough for the unauthenticated market routes.
func newPublicSession(cmd *cobra.Command) (*session, error) {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	relayURL, _ := flags.GetString("relay")
	token, _ := flags.GetString("token")

	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if token == "" {
		token = os.Getenv(envToken)
	}

	logger := slog.Default()
	return &session{
		cfg:    cfg,
		relay:  newRelayClient(resolveRelayURL(relayURL, cfg.Server.Port), logger),
		token:  token,
		logger: logger,
	}, nil
}

func (s *session) loadWallet(cmd *cobra.Command) error {
	key, _ := cmd.Flags().GetString("key")
	if key == "" {
		key = os.Getenv(envPrivateKey)
	}
	if key == "" {
		return errors.New("a private key is required (--key or $" + envPrivateKey + ")")
	}
	wallet, err := auth.LoadWallet(key)
	if err != nil {
		return err
	}
	s.wallet = wallet
	return nil
}

func resolveRelayURL(flag string, port int) string {
	u := flag
	if u == "" {
		u = os.Getenv(envRelayURL)
	}
	if u == "" {
		u = fmt.Sprintf("http://localhost:%d", port)
	}
	return strings.TrimRight(u, "/")
}

// newRelayClient talks to the relay's /api surface. The relay adds the API key.
func newRelayClient(relayURL string, logger *slog.Logger) *api.Client {
	return api.NewClient(relayURL+"/api", "",
		api.WithLogger(logger),
		api.WithTimeout(30*time.Second),
	)
}

// authorization returns the bearer header, logging in when no token was given.
func (s *session) authorization(ctx context.Context) (string, error) {
	if s.token == "" {
		if s.wallet == nil {
			return "", errors.New("a token or private key is required")
		}
		token, err := auth.Login(ctx, s.relay, s.wallet)
		if err != nil {
			return "", fmt.Errorf("login: %w", err)
		}
		s.token = token
		s.logger.Info("logged in", "address", s.wallet.Address().Hex())
	}
	return auth.BearerHeader(s.token), nil
}

func (s *session) signer() *orderbuild.Signer {
	return orderbuild.NewSigner(s.wallet.PrivateKey(), s.cfg.Chain.ChainID, orderbuild.Exchanges{
		Standard: addressOrZero(s.cfg.Chain.Exchange),
		NegRisk:  addressOrZero(s.cfg.Chain.NegRiskExchange),
	})
}

func addressOrZero(s string) common.Address {
	if !common.IsHexAddress(s) {
		return common.Address{}
	}
	return common.HexToAddress(s)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
