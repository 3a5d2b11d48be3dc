package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/usesift/sift/credibility"
	"github.com/usesift/sift/models"
)

// Validate returns a handler for POST /api/v1/validate. It assesses a
// source URL without fetching it; when the request carries previously
// extracted text, the verdict is refined with its genericness score.
// Assessment itself cannot fail, so a bound request always gets 200.
func Validate(cls *credibility.Classifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ValidateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ValidateResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		info := cls.ValidateURL(req.URL)
		if req.Text != "" {
			cls.Refine(info, req.Text)
		}

		c.JSON(http.StatusOK, models.ValidateResponse{
			Success:     true,
			Credibility: info,
		})
	}
}
