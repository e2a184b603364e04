package http

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ircbridge/internal/app/adapters/http/handlers"
	"ircbridge/internal/app/adapters/http/middlewares"
	"ircbridge/internal/app/infrastructure/config"
	"ircbridge/pkg/logger"
)

type Router struct {
	router      *gin.Engine
	handlers    *handlers.Handlers
	middlewares *middlewares.Middlewares

	log     logger.Logger
	manager *config.Manager
}

func NewRouter(log logger.Logger, manager *config.Manager, h *handlers.Handlers) *Router {
	r := &Router{
		router:      gin.Default(),
		handlers:    h,
		middlewares: middlewares.New(),
		log:         log,
		manager:     manager,
	}
	cfg := manager.Get()

	pprofGroup := r.router.Group("/", gin.BasicAuth(gin.Accounts{
		"admin": cfg.App.AuthToken,
	}))
	pprof.Register(pprofGroup)

	r.router.GET("/metrics", gin.BasicAuth(gin.Accounts{
		"admin": cfg.App.AuthToken,
	}), gin.WrapH(promhttp.Handler()))

	r.router.GET("/healthz", h.Healthz)
	r.router.GET("/ws", r.middlewares.Auth(cfg.App.AuthToken), h.WS)

	api := r.router.Group("/api", r.middlewares.Auth(cfg.App.AuthToken))
	api.GET("/connections", h.ListConnections)
	api.GET("/connections/saved", h.SavedConnections)
	api.GET("/scrollback", h.Scrollback)

	mutating := api.Group("", r.middlewares.RateLimit(cfg.Limiter.Requests, cfg.Limiter.Per))
	mutating.POST("/connect", h.Connect)
	mutating.POST("/disconnect", h.Disconnect)
	mutating.POST("/join", h.Join)
	mutating.POST("/part", h.Part)
	mutating.POST("/message", h.SendMessage)
	mutating.POST("/topic", h.SetTopic)

	return r
}

func (r *Router) Run(addr string) error {
	return r.router.Run(addr)
}
