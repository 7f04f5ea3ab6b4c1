// Package handlers exposes the advisor over HTTP and WebSocket.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/egor/engadvisor/advisor"
	"github.com/egor/engadvisor/middleware"
	"github.com/egor/engadvisor/session"
	"github.com/egor/engadvisor/websocket"
)

// Handler serves the UI boundary.
type Handler struct {
	advisor *advisor.Orchestrator
	store   *session.Store
	tokens  *middleware.Tokens
	hub     *websocket.Hub
	logger  *zap.Logger

	allowedOrigins []string
}

// New creates a Handler. hub may be nil to disable WebSocket pushes.
func New(o *advisor.Orchestrator, store *session.Store, tokens *middleware.Tokens, hub *websocket.Hub, logger *zap.Logger, allowedOrigins []string) *Handler {
	return &Handler{
		advisor:        o,
		store:          store,
		tokens:         tokens,
		hub:            hub,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
}

// Router builds the gin engine with every route. gatherer serves /metrics
// and may be nil.
func (h *Handler) Router(gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(h.logger))

	if len(h.allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     h.allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", h.Health)
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		api.POST("/sessions", h.CreateSession)
		api.GET("/widget", h.WidgetConfig)

		authorized := api.Group("/")
		authorized.Use(middleware.SessionAuth(h.tokens, h.store))
		{
			authorized.POST("/chat", h.Chat)
			authorized.GET("/interests", h.GetInterests)
			authorized.POST("/history/view", h.ViewHistory)
			authorized.POST("/history/save", h.SaveHistory)
			authorized.POST("/feedback", h.SubmitFeedback)
		}
	}

	r.GET("/ws", h.ServeWs)
	return r
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.store.Count()})
}

// profile returns the session profile loaded by the auth middleware.
func profile(c *gin.Context) *session.Profile {
	p, ok := middleware.Profile(c)
	if !ok {
		// only reachable when a route is registered without SessionAuth
		panic("handlers: route requires session auth")
	}
	return p
}

func (h *Handler) originAllowed(origin string) bool {
	for _, allowed := range h.allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
