package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/usesift/sift/engine"
	"github.com/usesift/sift/models"
)

// Scrape returns a handler for POST /api/v1/scrape.
//
// The engine reports every outcome in the response body; the handler
// only binds the request and picks the HTTP status: 200 on success,
// otherwise the status mapped from the error code.
func Scrape(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ScrapeResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		resp := eng.Process(c.Request.Context(), &req)
		if !resp.Success {
			c.JSON(statusForCode(resp.Error.Code), resp)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// statusForCode translates error codes to HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeUpstreamHTTP, models.ErrCodeNetwork:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidURL, models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
