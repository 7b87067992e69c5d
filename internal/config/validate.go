package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Validate checks that all required fields are set and values are valid.
func (c *RelayConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	for _, o := range c.Server.AllowedOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("server.allowed_origins entries must be \"*\" or start with http:// or https://, got %q", o)
		}
	}

	if c.Upstream.BaseURL == "" {
		return errors.New("upstream.base_url is required")
	}
	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("upstream.base_url must be an absolute URL, got %q", c.Upstream.BaseURL)
	}
	if c.Upstream.MaxRetries != nil && *c.Upstream.MaxRetries < 0 {
		return errors.New("upstream.max_retries must be >= 0")
	}
	if c.Upstream.RateLimit < 0 {
		return errors.New("upstream.rate_limit must be >= 0")
	}

	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be > 0")
	}
	if c.Poller.Concurrency < 1 {
		return errors.New("poller.concurrency must be >= 1")
	}

	if c.Details.Concurrency < 1 {
		return errors.New("details.concurrency must be >= 1")
	}

	if c.Journal.Enabled() {
		if err := c.Journal.validate("journal"); err != nil {
			return err
		}
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}

	return nil
}

// ValidateChain checks the on-chain settings. Only tools that touch the chain call it.
func (c *ChainConfig) ValidateChain() error {
	if c.ChainID < 1 {
		return errors.New("chain.chain_id must be >= 1")
	}
	addrs := []struct {
		name, value string
	}{
		{"chain.collateral", c.Collateral},
		{"chain.conditional_tokens", c.ConditionalTokens},
		{"chain.exchange", c.Exchange},
		{"chain.neg_risk_exchange", c.NegRiskExchange},
		{"chain.neg_risk_adapter", c.NegRiskAdapter},
	}
	for _, a := range addrs {
		if a.value == "" {
			return fmt.Errorf("%s is required", a.name)
		}
		if !common.IsHexAddress(a.value) {
			return fmt.Errorf("%s is not a valid address: %q", a.name, a.value)
		}
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
