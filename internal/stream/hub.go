package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/predictdash/predict-relay/internal/metrics"
	"github.com/predictdash/predict-relay/internal/model"
)

// Hub tracks subscribers per market and broadcasts snapshots to them.
type Hub struct {
	cfg      Config
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu     sync.RWMutex
	subs   map[int64]map[*subscriber]struct{}
	latest map[int64]model.Orderbook
	closed bool
}

// NewHub creates a Hub.
func NewHub(cfg Config, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.applyDefaults()

	h := &Hub{
		cfg:    cfg,
		logger: logger,
		subs:   make(map[int64]map[*subscriber]struct{}),
		latest: make(map[int64]model.Orderbook),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// ServeWS upgrades the request and subscribes the connection to one market
// outcome. The latest known snapshot, if any, is sent immediately.
// It returns once the connection is registered; the connection is served
// in the background until the client goes away or the hub closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, marketID int64, outcome Outcome) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		return fmt.Errorf("upgrade websocket: %w", err)
	}

	s := newSubscriber(h, conn, marketID, outcome)
	if err := h.register(s); err != nil {
		conn.Close()
		return err
	}

	go s.writeLoop()
	go s.readLoop()

	return nil
}

// MarketIDs returns the markets with at least one subscriber, ascending.
func (h *Hub) MarketIDs() []int64 {
	h.mu.RLock()
	ids := make([]int64, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.subs {
		n += len(set)
	}
	return n
}

// HandleSnapshot broadcasts an orderbook to the market's subscribers,
// inverting it for those watching the "No" outcome.
func (h *Hub) HandleSnapshot(ob model.Orderbook) error {
	h.mu.Lock()
	set, ok := h.subs[ob.MarketID]
	if !ok || h.closed {
		h.mu.Unlock()
		return nil
	}
	h.latest[ob.MarketID] = ob
	targets := make([]*subscriber, 0, len(set))
	for s := range set {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	frames := make(map[Outcome][]byte, 2)
	for _, s := range targets {
		data, ok := frames[s.outcome]
		if !ok {
			var err error
			data, err = encodeFrame(ob, s.outcome)
			if err != nil {
				return err
			}
			frames[s.outcome] = data
		}
		s.enqueue(data)
	}
	return nil
}

// Close disconnects every subscriber. Later connections are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	all := h.subs
	h.subs = make(map[int64]map[*subscriber]struct{})
	h.latest = make(map[int64]model.Orderbook)
	h.mu.Unlock()

	for _, set := range all {
		for s := range set {
			s.close()
		}
	}
	metrics.StreamSubscribers.Set(0)
}

func (h *Hub) register(s *subscriber) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed
	}
	set, ok := h.subs[s.marketID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subs[s.marketID] = set
	}
	set[s] = struct{}{}
	latest, hasLatest := h.latest[s.marketID]
	h.mu.Unlock()

	metrics.StreamSubscribers.Inc()
	h.logger.Debug("subscriber registered", "market_id", s.marketID, "outcome", s.outcome)

	if hasLatest {
		if data, err := encodeFrame(latest, s.outcome); err == nil {
			s.enqueue(data)
		}
	}
	return nil
}

func (h *Hub) unregister(s *subscriber) {
	h.mu.Lock()
	set, ok := h.subs[s.marketID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := set[s]; !ok {
		h.mu.Unlock()
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(h.subs, s.marketID)
		delete(h.latest, s.marketID)
	}
	h.mu.Unlock()

	metrics.StreamSubscribers.Dec()
	h.logger.Debug("subscriber unregistered", "market_id", s.marketID, "outcome", s.outcome)
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin || allowed == u.Host {
			return true
		}
	}
	return false
}

func encodeFrame(ob model.Orderbook, outcome Outcome) ([]byte, error) {
	if outcome == OutcomeNo {
		ob = model.InvertForNo(ob)
	}
	data, err := json.Marshal(Message{
		Type:      "orderbook",
		MarketID:  ob.MarketID,
		Outcome:   outcome,
		Orderbook: ob,
	})
	if err != nil {
		return nil, fmt.Errorf("encode orderbook frame: %w", err)
	}
	return data, nil
}
