package http

import (
	stdhttp "net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/config"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/core"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/proto"
)

// NewServer builds the HTTP server exposing the chat routes.
func NewServer(registry *core.Registry, chatLog *core.ChatLog, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(registry, chatLog, cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter registers middleware and routes on a fresh gin engine.
func NewRouter(registry *core.Registry, chatLog *core.ChatLog, cfg *config.Config, logger *zerolog.Logger) *gin.Engine {
	router := gin.New()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, proto.HeaderUser)

	router.Use(
		gin.Recovery(),
		cors.New(corsCfg),
		UserMiddleware(),
		LoggerMiddleware(logger),
		RateLimitMiddleware(cfg.RateLimitPerMinute, logger),
	)

	participants := NewParticipantHandlers(registry, logger)
	messages := NewMessageHandlers(chatLog, logger)

	router.GET("/health", healthHandler)

	router.POST("/participants", participants.Join)
	router.GET("/participants", participants.List)
	router.POST("/status", participants.Heartbeat)

	router.POST("/messages", messages.Post)
	router.GET("/messages", messages.List)
	router.PUT("/messages/:id", messages.Edit)
	router.DELETE("/messages/:id", messages.Delete)

	return router
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
