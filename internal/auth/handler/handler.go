package handler

import (
	"errors"
	"net/http"

	"coupon-api/internal/auth/credentials"
	"coupon-api/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	issuer *credentials.Issuer
}

func NewHandler(issuer *credentials.Issuer) *Handler {
	return &Handler{issuer: issuer}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/auth", h.Auth)
}

type authRequest struct {
	APIKey string `json:"api_key"`
}

// Auth exchanges the API key for a bearer credential. The body of a 200 is
// the JSON string "Bearer <credential>".
func (h *Handler) Auth(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	bearer, err := h.issuer.Issue(c.Request.Context(), req.APIKey)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, bearer.HeaderValue())

	case errors.Is(err, credentials.ErrUnauthorized):
		logger.Warn("api key rejected", map[string]any{
			"ip": c.ClientIP(),
		})
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
	}
}
