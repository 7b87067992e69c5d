package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/predictdash/predict-relay/internal/metrics"
	"github.com/predictdash/predict-relay/internal/model"
)

// OrderbookFetcher fetches one market's orderbook. *api.Client satisfies it.
type OrderbookFetcher interface {
	GetOrderbook(ctx context.Context, marketID int64) (*model.Orderbook, error)
}

// MarketSource provides the markets to poll.
type MarketSource interface {
	MarketIDs() []int64
}

// SnapshotHandler receives fetched orderbooks.
type SnapshotHandler interface {
	HandleSnapshot(ob model.Orderbook) error
}

// SnapshotHandlerFunc is a function adapter for SnapshotHandler.
type SnapshotHandlerFunc func(model.Orderbook) error

func (f SnapshotHandlerFunc) HandleSnapshot(ob model.Orderbook) error {
	return f(ob)
}

// Config holds poller configuration.
type Config struct {
	Interval    time.Duration // Poll interval (default: 3s)
	Concurrency int           // Max concurrent requests (default: 10)
	Timeout     time.Duration // Per-request timeout (default: 5s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    3 * time.Second,
		Concurrency: 10,
		Timeout:     5 * time.Second,
	}
}

// Poller periodically fetches orderbooks via the REST API.
type Poller struct {
	cfg     Config
	client  OrderbookFetcher
	markets MarketSource
	handler SnapshotHandler
	logger  *slog.Logger

	cycles atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, client OrderbookFetcher, markets MarketSource, handler SnapshotHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Poller{
		cfg:     cfg,
		client:  client,
		markets: markets,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("orderbook poller started",
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("orderbook poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cycles returns the number of completed poll cycles that had work to do.
func (p *Poller) Cycles() int64 {
	return p.cycles.Load()
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.pollAll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollAll()
		}
	}
}

// pollAll fetches orderbooks for all subscribed markets concurrently.
func (p *Poller) pollAll() {
	start := time.Now()

	ids := p.markets.MarketIDs()
	if len(ids) == 0 {
		return
	}

	// Semaphore for bounded concurrency.
	sem := make(chan struct{}, p.cfg.Concurrency)
	var wg sync.WaitGroup
	var fetched, failed atomic.Int64

	for _, id := range ids {
		wg.Add(1)
		go func(marketID int64) {
			defer wg.Done()

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-p.ctx.Done():
				return
			}

			if err := p.pollMarket(marketID); err != nil {
				p.logger.Warn("failed to poll orderbook",
					"market_id", marketID,
					"err", err,
				)
				failed.Add(1)
				metrics.PollErrorsTotal.Inc()
				return
			}

			fetched.Add(1)
		}(id)
	}

	wg.Wait()

	p.cycles.Add(1)
	metrics.PollCyclesTotal.Inc()

	p.logger.Debug("poll cycle complete",
		"markets", len(ids),
		"fetched", fetched.Load(),
		"errors", failed.Load(),
		"duration", time.Since(start),
	)
}

// pollMarket fetches and handles a single market's orderbook.
func (p *Poller) pollMarket(marketID int64) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	ob, err := p.client.GetOrderbook(ctx, marketID)
	if err != nil {
		return err
	}

	if p.handler != nil {
		if err := p.handler.HandleSnapshot(*ob); err != nil {
			return err
		}
	}

	return nil
}
