package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/usesift/sift/models"
)

// Auth returns API key authentication middleware. Clients present the
// key either as
//
//	X-API-Key: <key>
//	Authorization: Bearer <key>
//
// With no keys configured the middleware passes everything through, so
// a local deployment works without credentials.
func Auth(apiKeys []string) gin.HandlerFunc {
	if len(apiKeys) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	known := make(map[string]struct{}, len(apiKeys))
	for _, key := range apiKeys {
		if key != "" {
			known[key] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		key := requestKey(c)
		if key == "" {
			unauthorized(c, "missing API key: provide X-API-Key header or Authorization: Bearer <key>")
			return
		}
		if _, ok := known[key]; !ok {
			unauthorized(c, "invalid API key")
			return
		}

		// Rate limiting keys off this.
		c.Set("api_key", key)
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ScrapeResponse{
		Success: false,
		Error: &models.ErrorDetail{
			Code:    models.ErrCodeUnauthorized,
			Message: message,
		},
	})
}

func requestKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
