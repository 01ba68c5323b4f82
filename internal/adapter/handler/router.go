package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhledev/podcast-marketer/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	episodeHandler *EpisodeHandler
	webhookHandler *WebhookHandler
	storageHandler *StorageHandler
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, episodeHandler *EpisodeHandler, webhookHandler *WebhookHandler, storageHandler *StorageHandler) *Router {
	return &Router{
		cfg:            cfg,
		episodeHandler: episodeHandler,
		webhookHandler: webhookHandler,
		storageHandler: storageHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	v1 := e.Group("/v1")

	rt.setupEpisodeRoutes(v1)
	rt.setupWebhookRoutes(v1)
}

// setupEpisodeRoutes configures episode routes
func (rt *Router) setupEpisodeRoutes(g *echo.Group) {
	episodes := g.Group("/episodes")

	if rt.episodeHandler != nil {
		episodes.POST("", rt.episodeHandler.CreateEpisode)
		episodes.GET("", rt.episodeHandler.ListEpisodes)
		episodes.GET("/:id", rt.episodeHandler.GetEpisode)
		episodes.GET("/:id/content", rt.episodeHandler.GetEpisodeContent)
	} else {
		episodes.POST("", rt.notImplemented)
		episodes.GET("", rt.notImplemented)
		episodes.GET("/:id", rt.notImplemented)
		episodes.GET("/:id/content", rt.notImplemented)
	}

	if rt.storageHandler != nil {
		episodes.POST("/upload", rt.storageHandler.UploadEpisode)
	} else {
		episodes.POST("/upload", rt.notImplemented)
	}
}

// setupWebhookRoutes configures webhook routes
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	webhooks := g.Group("/webhooks")

	if rt.webhookHandler != nil {
		webhooks.POST("/assemblyai", rt.webhookHandler.HandleAssemblyAIWebhook)
	} else {
		webhooks.POST("/assemblyai", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":  "This endpoint is not yet implemented",
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"time":        time.Now().Format(time.RFC3339),
		"environment": rt.cfg.Server.Environment,
	})
}
