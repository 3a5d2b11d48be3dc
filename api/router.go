package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/usesift/sift/api/handler"
	"github.com/usesift/sift/api/middleware"
	"github.com/usesift/sift/config"
	"github.com/usesift/sift/credibility"
	"github.com/usesift/sift/engine"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(eng *engine.Engine, batches *engine.Batches, cls *credibility.Classifier, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(batches, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Scrape
	protected.POST("/scrape", handler.Scrape(eng))

	// Validate (source assessment without fetching)
	protected.POST("/validate", handler.Validate(cls))

	// Batch
	protected.POST("/batch/scrape", handler.PostBatch(batches))
	protected.GET("/batch/:id", handler.GetBatch(batches))

	return r
}
