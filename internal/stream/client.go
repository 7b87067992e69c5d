package stream

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Maximum message size accepted from a client. Clients only send control frames.
const maxMessageSize = 512

// subscriber is one websocket connection watching one market outcome.
type subscriber struct {
	hub      *Hub
	conn     *websocket.Conn
	logger   *slog.Logger
	marketID int64
	outcome  Outcome

	send chan []byte
	done chan struct{}
	once sync.Once
}

func newSubscriber(hub *Hub, conn *websocket.Conn, marketID int64, outcome Outcome) *subscriber {
	return &subscriber{
		hub:      hub,
		conn:     conn,
		logger:   hub.logger.With("market_id", marketID, "outcome", outcome),
		marketID: marketID,
		outcome:  outcome,
		send:     make(chan []byte, hub.cfg.BufferSize),
		done:     make(chan struct{}),
	}
}

// enqueue offers a frame without blocking. Frames for a full buffer are dropped.
func (s *subscriber) enqueue(data []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.send <- data:
		return true
	default:
		s.logger.Debug("subscriber buffer full, dropping frame")
		return false
	}
}

// close stops the write loop; safe to call more than once.
func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.done)
	})
}

// readLoop consumes client frames until the connection fails, then unsubscribes.
func (s *subscriber) readLoop() {
	defer func() {
		s.hub.unregister(s)
		s.close()
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.hub.cfg.PongTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.hub.cfg.PongTimeout))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read failed", "err", err)
			}
			return
		}
	}
}

// writeLoop is the only writer on the connection.
func (s *subscriber) writeLoop() {
	ticker := time.NewTicker(s.hub.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-s.done:
			s.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
			return
		case data := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.hub.cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("websocket write failed", "err", err)
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(s.hub.cfg.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.logger.Debug("failed to send ping", "err", err)
				return
			}
		}
	}
}
