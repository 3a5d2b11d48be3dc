package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/usesift/sift/engine"
	"github.com/usesift/sift/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/v1/health. It reports uptime
// and the batch job store load; there is no browser pool or external
// dependency to degrade on, so a responding process is a healthy one.
func Health(batches *engine.Batches, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status: "healthy",
			Uptime: time.Since(startTime).Round(time.Second).String(),
			Jobs: models.JobStats{
				ActiveBatches: batches.Active(),
			},
			Version: Version,
		})
	}
}
