package config

import (
	"strings"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultBaseURL            = "https://api.predict.fun/v1"
	DefaultPort               = 3001
	DefaultReadTimeout        = 15 * time.Second
	DefaultWriteTimeout       = 30 * time.Second
	DefaultShutdownTimeout    = 10 * time.Second
	DefaultUpstreamTimeout    = 30 * time.Second
	DefaultMaxRetries         = 2
	DefaultRetryBackoff       = 500 * time.Millisecond
	DefaultRateBurst          = 10
	DefaultPollInterval       = 3 * time.Second
	DefaultPollConcurrency    = 10
	DefaultPollTimeout        = 5 * time.Second
	DefaultDetailsConcurrency = 8
	DefaultDetailsCacheTTL    = 30 * time.Second
	DefaultDBPort             = 5432
	DefaultDBSSLMode          = "prefer"
	DefaultMaxConns           = 4
	DefaultMinConns           = 1
	DefaultMetricsPath        = "/metrics"
	DefaultChainID            = 56
	DefaultLocale             = "zh-CN"
)

func (c *RelayConfig) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}

	// Upstream defaults
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = DefaultBaseURL
	}
	c.Upstream.BaseURL = strings.TrimRight(c.Upstream.BaseURL, "/")
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = DefaultUpstreamTimeout
	}
	if c.Upstream.MaxRetries == nil {
		retries := DefaultMaxRetries
		c.Upstream.MaxRetries = &retries
	}
	if c.Upstream.RetryBackoff == 0 {
		c.Upstream.RetryBackoff = DefaultRetryBackoff
	}
	if c.Upstream.RateBurst == 0 {
		c.Upstream.RateBurst = DefaultRateBurst
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = DefaultPollConcurrency
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = DefaultPollTimeout
	}

	if c.Details.Concurrency == 0 {
		c.Details.Concurrency = DefaultDetailsConcurrency
	}
	if c.Details.CacheTTL == 0 {
		c.Details.CacheTTL = DefaultDetailsCacheTTL
	}

	// Journal defaults only matter when it is enabled.
	if c.Journal.Enabled() {
		if c.Journal.Port == 0 {
			c.Journal.Port = DefaultDBPort
		}
		if c.Journal.SSLMode == "" {
			c.Journal.SSLMode = DefaultDBSSLMode
		}
		if c.Journal.MaxConns == 0 {
			c.Journal.MaxConns = DefaultMaxConns
		}
		if c.Journal.MinConns == 0 {
			c.Journal.MinConns = DefaultMinConns
		}
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	if c.Chain.ChainID == 0 {
		c.Chain.ChainID = DefaultChainID
	}

	if c.Locale.Default == "" {
		c.Locale.Default = DefaultLocale
	}
}
