package relay

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/predictdash/predict-relay/internal/api"
	"github.com/predictdash/predict-relay/internal/database"
	"github.com/predictdash/predict-relay/internal/i18n"
	"github.com/predictdash/predict-relay/internal/market"
	"github.com/predictdash/predict-relay/internal/model"
	"github.com/predictdash/predict-relay/internal/stream"
)

// Upstream forwards requests to the prediction-market API. *api.Client satisfies it.
type Upstream interface {
	Forward(ctx context.Context, req api.Request) (*api.Response, error)
}

// Enricher attaches market details to orders and positions. *market.Details satisfies it.
type Enricher interface {
	EnrichOrders(ctx context.Context, orders []model.Order) ([]market.DetailedOrder, error)
	EnrichPositions(ctx context.Context, positions []model.Position) ([]market.DetailedPosition, error)
}

// Journal records forwarded order requests. *database.Journal satisfies it.
type Journal interface {
	Record(ctx context.Context, e database.Entry)
	Ping(ctx context.Context) error
	Enabled() bool
}

// StreamHub serves orderbook websocket subscriptions. *stream.Hub satisfies it.
type StreamHub interface {
	ServeWS(w http.ResponseWriter, r *http.Request, marketID int64, outcome stream.Outcome) error
	Subscribers() int
}

// Config holds relay HTTP settings.
type Config struct {
	AllowedOrigins []string
	MetricsPath    string // empty disables the metrics route
	MaxBodyBytes   int64  // default: 1 MiB
}

// Deps are the collaborators of a Server. Only Upstream is required.
type Deps struct {
	Upstream   Upstream
	Details    Enricher
	Hub        StreamHub
	Journal    Journal
	Translator *i18n.Translator
	Logger     *slog.Logger
}

// Server is the relay HTTP handler.
type Server struct {
	cfg        Config
	upstream   Upstream
	details    Enricher
	hub        StreamHub
	journal    Journal
	translator *i18n.Translator
	logger     *slog.Logger
	started    time.Time

	engine *gin.Engine
}

// New creates a Server and registers its routes.
func New(cfg Config, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Translator == nil {
		deps.Translator = i18n.New(nil, "")
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		cfg:        cfg,
		upstream:   deps.Upstream,
		details:    deps.Details,
		hub:        deps.Hub,
		journal:    deps.Journal,
		translator: deps.Translator,
		logger:     deps.Logger,
		started:    time.Now(),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(
		requestID(),
		s.recovery(),
		s.accessLog(),
		observeMetrics(),
		cors.New(s.corsConfig()),
		s.limitBody(),
	)
	r.NoRoute(func(c *gin.Context) {
		s.abortWithError(c, http.StatusNotFound, "Not Found")
	})

	r.GET("/api/health", s.health)

	pub := r.Group("/api")
	pub.GET("/markets", s.listMarkets)
	pub.GET("/categories", s.proxy(http.MethodGet, staticPath("/categories")))
	pub.GET("/categories/:slug", s.proxy(http.MethodGet, paramPath("/categories/", "slug", "")))
	pub.GET("/markets/:id", s.proxy(http.MethodGet, paramPath("/markets/", "id", "")))
	pub.GET("/orderbook/:id", s.orderbook)
	pub.GET("/auth/message", s.proxy(http.MethodGet, staticPath("/auth/message")))
	pub.POST("/auth", s.proxy(http.MethodPost, staticPath("/auth")))
	if s.hub != nil {
		pub.GET("/ws/orderbook", s.streamOrderbook)
	}

	acct := r.Group("/api", s.requireAuth())
	acct.GET("/orders", s.proxy(http.MethodGet, staticPath("/orders")))
	acct.POST("/orders", s.journaled(database.ActionSubmit, "/orders"))
	acct.POST("/orders/remove", s.journaled(database.ActionRemove, "/orders/remove"))
	acct.GET("/positions", s.proxy(http.MethodGet, staticPath("/positions")))
	acct.GET("/account", s.proxy(http.MethodGet, staticPath("/account")))
	acct.POST("/account/referral", s.proxy(http.MethodPost, staticPath("/account/referral")))
	if s.details != nil {
		acct.GET("/orders/detailed", s.detailedOrders)
		acct.GET("/positions/detailed", s.detailedPositions)
	}

	if s.cfg.MetricsPath != "" {
		r.GET(s.cfg.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "Accept-Language", requestIDHeader},
		ExposeHeaders:   []string{"Content-Length", requestIDHeader},
		AllowWebSockets: true,
		MaxAge:          12 * time.Hour,
	}
	for _, o := range s.cfg.AllowedOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = s.cfg.AllowedOrigins
	return cfg
}
