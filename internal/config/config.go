package config

import "time"

// RelayConfig is the root configuration for a relay instance.
type RelayConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Poller   PollerConfig   `yaml:"poller"`
	Details  DetailsConfig  `yaml:"details"`
	Journal  DBConfig       `yaml:"journal"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Chain    ChainConfig    `yaml:"chain"`
	Locale   LocaleConfig   `yaml:"locale"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// UpstreamConfig holds the prediction-market API settings.
type UpstreamConfig struct {
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"` // sent as x-api-key
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   *int          `yaml:"max_retries"` // GET only; unset = 2, 0 disables
	RetryBackoff time.Duration `yaml:"retry_backoff"`
	RateLimit    float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
	RateBurst    int           `yaml:"rate_burst"`
}

// Retries returns the GET retry count. Call after defaults are applied.
func (u UpstreamConfig) Retries() int {
	if u.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *u.MaxRetries
}

// PollerConfig holds the server-side orderbook poller settings.
type PollerConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}

// DetailsConfig holds the market detail fan-out settings.
type DetailsConfig struct {
	Concurrency int           `yaml:"concurrency"`
	CacheTTL    time.Duration `yaml:"cache_ttl"` // negative disables caching
}

// DBConfig holds the optional order journal database connection.
// The journal is disabled when Host is empty.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Enabled reports whether a journal database is configured.
func (db DBConfig) Enabled() bool {
	return db.Host != ""
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ChainConfig holds the on-chain settings used by the order tool.
type ChainConfig struct {
	RPCURL            string `yaml:"rpc_url"`
	ChainID           int64  `yaml:"chain_id"`
	Collateral        string `yaml:"collateral"`         // ERC-20 collateral token
	ConditionalTokens string `yaml:"conditional_tokens"` // ERC-1155 outcome tokens
	Exchange          string `yaml:"exchange"`
	NegRiskExchange   string `yaml:"neg_risk_exchange"`
	NegRiskAdapter    string `yaml:"neg_risk_adapter"`
}

// LocaleConfig selects the language for translated error messages.
type LocaleConfig struct {
	Default string `yaml:"default"`
}
