package stream

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/predictdash/predict-relay/internal/model"
)

// Errors
var (
	ErrHubClosed = errors.New("hub closed")
)

// Outcome selects which side of a binary market a subscriber views.
type Outcome string

const (
	OutcomeYes Outcome = "yes"
	OutcomeNo  Outcome = "no"
)

// ParseOutcome parses "yes"/"no" (any case). Empty means yes.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yes":
		return OutcomeYes, nil
	case "no":
		return OutcomeNo, nil
	}
	return "", fmt.Errorf("unknown outcome %q", s)
}

// Message is the frame written to subscribers.
type Message struct {
	Type      string          `json:"type"` // always "orderbook"
	MarketID  int64           `json:"marketId"`
	Outcome   Outcome         `json:"outcome"`
	Orderbook model.Orderbook `json:"orderbook"`
}

// Config holds hub configuration.
type Config struct {
	BufferSize     int           // Per-subscriber send buffer (default: 16)
	WriteTimeout   time.Duration // Per-frame write deadline (default: 10s)
	PongTimeout    time.Duration // Max silence before a client is dropped (default: 60s)
	PingInterval   time.Duration // Must be less than PongTimeout (default: 54s)
	AllowedOrigins []string      // "*" or empty allows any origin
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BufferSize:   16,
		WriteTimeout: 10 * time.Second,
		PongTimeout:  60 * time.Second,
		PingInterval: 54 * time.Second,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.BufferSize <= 0 {
		c.BufferSize = d.BufferSize
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.PongTimeout <= 0 {
		c.PongTimeout = d.PongTimeout
	}
	if c.PingInterval <= 0 || c.PingInterval >= c.PongTimeout {
		c.PingInterval = c.PongTimeout * 9 / 10
	}
}
