package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/predictdash/predict-relay/internal/api"
	"github.com/predictdash/predict-relay/internal/database"
	"github.com/predictdash/predict-relay/internal/model"
	"github.com/predictdash/predict-relay/internal/stream"
	"github.com/predictdash/predict-relay/internal/version"
)

// pathFunc maps a relay request to the upstream path.
type pathFunc func(c *gin.Context) string

func staticPath(p string) pathFunc {
	return func(*gin.Context) string { return p }
}

func paramPath(prefix, param, suffix string) pathFunc {
	return func(c *gin.Context) string {
		return prefix + url.PathEscape(c.Param(param)) + suffix
	}
}

// proxy forwards the request unchanged and relays the answer.
func (s *Server) proxy(method string, path pathFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := s.upstreamRequest(c, method, path(c))
		if !ok {
			return
		}
		resp, ok := s.forward(c, req)
		if !ok {
			return
		}
		s.relay(c, resp)
	}
}

func (s *Server) upstreamRequest(c *gin.Context, method, path string) (api.Request, bool) {
	req := api.Request{
		Method:        method,
		Path:          path,
		RawQuery:      c.Request.URL.RawQuery,
		Authorization: c.GetHeader("Authorization"),
	}
	if method == http.MethodGet || c.Request.Body == nil {
		return req, true
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.abortWithError(c, http.StatusRequestEntityTooLarge, "Request Entity Too Large")
			return req, false
		}
		s.logger.Warn("read request body", "path", c.Request.URL.Path, "request_id", requestIDFrom(c), "error", err)
		s.abortWithError(c, http.StatusBadRequest, "Bad Request")
		return req, false
	}
	req.Body = body
	return req, true
}

// forward sends req upstream. On transport failure it answers 500 and returns false.
func (s *Server) forward(c *gin.Context, req api.Request) (*api.Response, bool) {
	resp, err := s.upstream.Forward(c.Request.Context(), req)
	if err != nil {
		s.logger.Error("upstream request failed",
			"method", req.Method,
			"upstream_path", req.Path,
			"request_id", requestIDFrom(c),
			"error", err,
		)
		s.abortWithError(c, http.StatusInternalServerError, "Internal Server Error")
		return nil, false
	}
	return resp, true
}

// relay writes a 2xx answer verbatim and converts anything else to the error envelope.
func (s *Server) relay(c *gin.Context, resp *api.Response) {
	if resp.OK() {
		passthrough(c, resp)
		return
	}
	s.upstreamError(c, resp)
}

func (s *Server) upstreamError(c *gin.Context, resp *api.Response) {
	msg := upstreamMessage(resp)
	s.logger.Warn("upstream error",
		"path", c.Request.URL.Path,
		"status", resp.StatusCode,
		"message", msg,
		"request_id", requestIDFrom(c),
	)
	s.abortWithError(c, resp.StatusCode, msg)
}

// decode parses a successful upstream envelope. It answers 502 and returns
// false when the body cannot be read.
func decode[T any](s *Server, c *gin.Context, resp *api.Response) (api.Envelope[T], bool) {
	var env api.Envelope[T]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		s.logger.Error("decode upstream response",
			"path", c.Request.URL.Path,
			"request_id", requestIDFrom(c),
			"error", err,
		)
		s.abortWithError(c, http.StatusBadGateway, "Bad Gateway")
		return env, false
	}
	return env, true
}

// listMarkets answers with every market of every category as one flat list.
func (s *Server) listMarkets(c *gin.Context) {
	req, _ := s.upstreamRequest(c, http.MethodGet, "/categories")
	resp, ok := s.forward(c, req)
	if !ok {
		return
	}
	if !resp.OK() {
		s.upstreamError(c, resp)
		return
	}

	env, ok := decode[[]model.Category](s, c, resp)
	if !ok {
		return
	}
	if !env.Success {
		passthrough(c, resp)
		return
	}
	respondData(c, model.FlattenCategories(env.Data), env.Cursor)
}

// orderbook relays a market's orderbook. With outcome=no the book is
// inverted to No prices before it is returned.
func (s *Server) orderbook(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		s.abortWithError(c, http.StatusBadRequest, "Invalid market id")
		return
	}

	query := c.Request.URL.Query()
	outcome, err := stream.ParseOutcome(query.Get("outcome"))
	if err != nil {
		s.abortWithError(c, http.StatusBadRequest, "Invalid outcome")
		return
	}

	req := api.Request{
		Method:        http.MethodGet,
		Path:          "/markets/" + strconv.FormatInt(id, 10) + "/orderbook",
		RawQuery:      c.Request.URL.RawQuery,
		Authorization: c.GetHeader("Authorization"),
	}
	if query.Has("outcome") {
		query.Del("outcome")
		req.RawQuery = query.Encode()
	}

	resp, ok := s.forward(c, req)
	if !ok {
		return
	}
	if !resp.OK() || outcome == stream.OutcomeYes {
		s.relay(c, resp)
		return
	}

	env, ok := decode[model.Orderbook](s, c, resp)
	if !ok {
		return
	}
	if !env.Success {
		passthrough(c, resp)
		return
	}
	if env.Data.MarketID == 0 {
		env.Data.MarketID = id
	}
	respondData(c, model.InvertForNo(env.Data), "")
}

// journaled forwards an order mutation and records it, whatever the outcome.
func (s *Server) journaled(action database.Action, path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := s.upstreamRequest(c, http.MethodPost, path)
		if !ok {
			return
		}

		entry := database.Entry{
			RequestID: requestIDFrom(c),
			Action:    action,
			Request:   req.Body,
		}

		resp, ok := s.forward(c, req)
		if ok {
			entry.StatusCode = resp.StatusCode
			entry.Response = resp.Body
		}
		if s.journal != nil {
			s.journal.Record(c.Request.Context(), entry)
		}
		if ok {
			s.relay(c, resp)
		}
	}
}

func (s *Server) detailedOrders(c *gin.Context) {
	req, _ := s.upstreamRequest(c, http.MethodGet, "/orders")
	resp, ok := s.forward(c, req)
	if !ok {
		return
	}
	if !resp.OK() {
		s.upstreamError(c, resp)
		return
	}

	env, ok := decode[[]model.Order](s, c, resp)
	if !ok {
		return
	}
	if !env.Success {
		passthrough(c, resp)
		return
	}

	orders, err := s.details.EnrichOrders(c.Request.Context(), env.Data)
	if err != nil {
		s.logger.Warn("enrich orders", "request_id", requestIDFrom(c), "error", err)
	}
	respondData(c, orders, env.Cursor)
}

func (s *Server) detailedPositions(c *gin.Context) {
	req, _ := s.upstreamRequest(c, http.MethodGet, "/positions")
	resp, ok := s.forward(c, req)
	if !ok {
		return
	}
	if !resp.OK() {
		s.upstreamError(c, resp)
		return
	}

	env, ok := decode[[]model.Position](s, c, resp)
	if !ok {
		return
	}
	if !env.Success {
		passthrough(c, resp)
		return
	}

	positions, err := s.details.EnrichPositions(c.Request.Context(), env.Data)
	if err != nil {
		s.logger.Warn("enrich positions", "request_id", requestIDFrom(c), "error", err)
	}
	respondData(c, positions, env.Cursor)
}

// streamOrderbook upgrades to a websocket carrying orderbook snapshots.
func (s *Server) streamOrderbook(c *gin.Context) {
	id, err := strconv.ParseInt(c.Query("marketId"), 10, 64)
	if err != nil || id <= 0 {
		s.abortWithError(c, http.StatusBadRequest, "Invalid market id")
		return
	}
	outcome, err := stream.ParseOutcome(c.Query("outcome"))
	if err != nil {
		s.abortWithError(c, http.StatusBadRequest, "Invalid outcome")
		return
	}

	if err := s.hub.ServeWS(c.Writer, c.Request, id, outcome); err != nil {
		s.logger.Warn("websocket subscribe failed",
			"market_id", id,
			"request_id", requestIDFrom(c),
			"error", err,
		)
		if !c.Writer.Written() {
			s.abortWithError(c, http.StatusServiceUnavailable, "Service Unavailable")
		}
	}
}

type healthBody struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	Uptime      string `json:"uptime"`
	Journal     string `json:"journal"`
	Subscribers int    `json:"subscribers"`
}

func (s *Server) health(c *gin.Context) {
	body := healthBody{
		Status:  "ok",
		Version: version.Version,
		Commit:  version.Commit,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Journal: "disabled",
	}

	if s.journal != nil && s.journal.Enabled() {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.journal.Ping(ctx); err != nil {
			s.logger.Warn("journal ping failed", "error", err)
			body.Status = "degraded"
			body.Journal = "unreachable"
		} else {
			body.Journal = "ok"
		}
	}
	if s.hub != nil {
		body.Subscribers = s.hub.Subscribers()
	}

	c.JSON(http.StatusOK, body)
}
