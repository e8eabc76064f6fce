package api

import (
	"time"

	"github.com/Domenick1991/skyrocket/internal/client"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type RouterConfig struct {
	Cookie           CookieConfig
	ReconcileTimeout time.Duration
}

// NewRouter mounts every view endpoint under /api.
func NewRouter(registry *client.Registry, cfg RouterConfig, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log))

	group := router.Group("/api", SessionMiddleware(registry, cfg.Cookie))
	NewAuthHandler().Register(group)
	NewDraftHandler().Register(group)
	NewBookingHandler().Register(group.Group("/book"))
	NewProfileHandler(cfg.ReconcileTimeout).Register(group.Group("/profile"))
	NewManagementHandler(cfg.ReconcileTimeout).Register(group.Group("/management"))

	return router
}
