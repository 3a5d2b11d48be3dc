package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/usesift/sift/engine"
	"github.com/usesift/sift/models"
)

// PostBatch returns a handler for POST /api/v1/batch/scrape. The job
// runs in the background; the response carries the ID for polling.
func PostBatch(batches *engine.Batches) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		c.JSON(http.StatusOK, batches.Start(&req))
	}
}

// GetBatch returns a handler for GET /api/v1/batch/:id.
func GetBatch(batches *engine.Batches) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, ok := batches.Status(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "batch job not found",
				},
			})
			return
		}

		c.JSON(http.StatusOK, status)
	}
}
