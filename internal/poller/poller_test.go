package poller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/predictdash/predict-relay/internal/api"
	"github.com/predictdash/predict-relay/internal/model"
)

// staticSource returns a fixed list of market ids.
type staticSource struct {
	ids []int64
}

func (s *staticSource) MarketIDs() []int64 {
	return s.ids
}

const orderbookBody = `{"success":true,"data":{"updateTimestampMs":1,"bids":[[0.52,100],[0.51,200]],"asks":[[0.55,150]]}}`

func TestPoller_PollAll(t *testing.T) {
	// Create a test server that returns orderbook data.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(orderbookBody))
	}))
	defer server.Close()

	client := api.NewClient(server.URL, "", api.WithTimeout(5*time.Second))
	markets := &staticSource{ids: []int64{1, 2, 3}}

	var mu sync.Mutex
	seen := make(map[int64]int)
	handler := SnapshotHandlerFunc(func(ob model.Orderbook) error {
		mu.Lock()
		seen[ob.MarketID] = len(ob.Bids)
		mu.Unlock()
		return nil
	})

	cfg := Config{
		Interval:    time.Hour, // Long interval, we'll trigger manually.
		Concurrency: 10,
		Timeout:     5 * time.Second,
	}

	p := New(cfg, client, markets, handler, nil)

	// Call pollAll directly.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p.ctx = ctx

	p.pollAll()

	if len(seen) != 3 {
		t.Fatalf("snapshots = %d, want 3", len(seen))
	}
	for _, id := range []int64{1, 2, 3} {
		if seen[id] != 2 {
			t.Errorf("market %d bids = %d, want 2", id, seen[id])
		}
	}
	if p.Cycles() != 1 {
		t.Errorf("Cycles() = %d, want 1", p.Cycles())
	}
}

func TestPoller_NoMarkets(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	p := New(DefaultConfig(), api.NewClient(server.URL, ""), &staticSource{}, nil, nil)
	p.ctx = context.Background()
	p.pollAll()

	if requests.Load() != 0 {
		t.Errorf("requests = %d, want 0", requests.Load())
	}
	if p.Cycles() != 0 {
		t.Errorf("Cycles() = %d, want 0", p.Cycles())
	}
}

func TestPoller_HandlerErrorDoesNotStopCycle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(orderbookBody))
	}))
	defer server.Close()

	var calls atomic.Int32
	handler := SnapshotHandlerFunc(func(ob model.Orderbook) error {
		calls.Add(1)
		if ob.MarketID == 2 {
			return errors.New("handler failed")
		}
		return nil
	})

	p := New(Config{Interval: time.Hour, Concurrency: 1, Timeout: time.Second},
		api.NewClient(server.URL, ""), &staticSource{ids: []int64{1, 2, 3}}, handler, nil)
	p.ctx = context.Background()
	p.pollAll()

	if calls.Load() != 3 {
		t.Errorf("handler calls = %d, want 3", calls.Load())
	}
}

func TestPoller_StartStop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"bids":[],"asks":[]}}`))
	}))
	defer server.Close()

	client := api.NewClient(server.URL, "")
	markets := &staticSource{ids: []int64{1}}

	var called atomic.Bool
	handler := SnapshotHandlerFunc(func(ob model.Orderbook) error {
		called.Store(true)
		return nil
	})

	cfg := Config{
		Interval:    100 * time.Millisecond,
		Concurrency: 10,
		Timeout:     5 * time.Second,
	}

	p := New(cfg, client, markets, handler, nil)

	ctx := context.Background()
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Wait for at least one poll.
	time.Sleep(150 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if !called.Load() {
		t.Error("handler was never called")
	}
}

func TestPoller_Concurrency(t *testing.T) {
	var inFlight atomic.Int32
	var maxInFlight atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := inFlight.Add(1)
		defer inFlight.Add(-1)

		// Track max concurrent requests.
		for {
			old := maxInFlight.Load()
			if current <= old || maxInFlight.CompareAndSwap(old, current) {
				break
			}
		}

		// Simulate some work.
		time.Sleep(50 * time.Millisecond)

		w.Write([]byte(`{"success":true,"data":{"bids":[],"asks":[]}}`))
	}))
	defer server.Close()

	client := api.NewClient(server.URL, "")

	// Create 20 markets.
	var ids []int64
	for i := int64(1); i <= 20; i++ {
		ids = append(ids, i)
	}
	markets := &staticSource{ids: ids}

	handler := SnapshotHandlerFunc(func(ob model.Orderbook) error {
		return nil
	})

	cfg := Config{
		Interval:    time.Hour,
		Concurrency: 5, // Limit to 5 concurrent.
		Timeout:     5 * time.Second,
	}

	p := New(cfg, client, markets, handler, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	p.ctx = ctx

	p.pollAll()

	if got := maxInFlight.Load(); got > 5 {
		t.Errorf("maxInFlight = %d, want <= 5", got)
	}
}
