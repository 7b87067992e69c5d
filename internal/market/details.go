package market

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/predictdash/predict-relay/internal/metrics"
	"github.com/predictdash/predict-relay/internal/model"
)

// Fetcher loads a single market. *api.Client satisfies it.
type Fetcher interface {
	GetMarket(ctx context.Context, id int64) (*model.Market, error)
}

// Config holds fan-out settings.
type Config struct {
	Concurrency int
	CacheTTL    time.Duration // <= 0 disables caching
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Concurrency: 8,
		CacheTTL:    30 * time.Second,
	}
}

type cachedMarket struct {
	market    *model.Market
	fetchedAt time.Time
}

// Details resolves market ids to markets.
type Details struct {
	cfg     Config
	fetcher Fetcher
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.RWMutex
	cache map[int64]cachedMarket
}

// NewDetails creates a Details fetcher.
func NewDetails(fetcher Fetcher, cfg Config, logger *slog.Logger) *Details {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	return &Details{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
		cache:   make(map[int64]cachedMarket),
	}
}

// Fetch loads every distinct id in parallel and waits for all of them.
// Failed ids are logged and left out of the result; the returned error
// combines every failure and is nil only when all ids resolved.
func (d *Details) Fetch(ctx context.Context, ids []int64) (map[int64]*model.Market, error) {
	result := make(map[int64]*model.Market, len(ids))
	pending := make([]int64, 0, len(ids))

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if m, ok := d.cached(id); ok {
			result[id] = m
			continue
		}
		pending = append(pending, id)
	}

	if len(pending) == 0 {
		return result, nil
	}

	var (
		mu   sync.Mutex
		errs error
		g    errgroup.Group
	)
	g.SetLimit(d.cfg.Concurrency)

	for _, id := range pending {
		id := id
		g.Go(func() error {
			m, err := d.fetcher.GetMarket(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				metrics.MarketDetailFailuresTotal.Inc()
				d.logger.Warn("market detail fetch failed", "market_id", id, "err", err)
				errs = multierr.Append(errs, fmt.Errorf("market %d: %w", id, err))
				return nil
			}
			result[id] = m
			d.store(id, m)
			return nil
		})
	}
	// Goroutines never return an error; failures are collected in errs.
	_ = g.Wait()

	return result, errs
}

// Invalidate drops all cached markets.
func (d *Details) Invalidate() {
	d.mu.Lock()
	d.cache = make(map[int64]cachedMarket)
	d.mu.Unlock()
}

func (d *Details) cached(id int64) (*model.Market, bool) {
	if d.cfg.CacheTTL <= 0 {
		return nil, false
	}
	d.mu.RLock()
	entry, ok := d.cache[id]
	d.mu.RUnlock()
	if !ok || d.now().Sub(entry.fetchedAt) > d.cfg.CacheTTL {
		return nil, false
	}
	return entry.market, true
}

func (d *Details) store(id int64, m *model.Market) {
	if d.cfg.CacheTTL <= 0 {
		return
	}
	d.mu.Lock()
	d.cache[id] = cachedMarket{market: m, fetchedAt: d.now()}
	d.mu.Unlock()
}
