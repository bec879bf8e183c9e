package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/davidwtbuxton/captain-pasty/internal/config"
	"github.com/davidwtbuxton/captain-pasty/internal/services"
)

// SystemHandler handles health and admin endpoints
type SystemHandler struct {
	resave *services.ResaveTask
	config *config.Config
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(resave *services.ResaveTask, cfg *config.Config) *SystemHandler {
	return &SystemHandler{resave: resave, config: cfg}
}

// Health handles health check via GET /healthz
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "pasty",
	})
}

// AdminAuth guards admin endpoints with the configured bearer token. When no
// token is configured the endpoints are disabled entirely.
func (h *SystemHandler) AdminAuth(c *gin.Context) {
	if h.config.AdminToken == "" {
		respondError(c, http.StatusNotFound, "admin endpoints are disabled")
		c.Abort()
		return
	}

	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.config.AdminToken)) != 1 {
		respondError(c, http.StatusForbidden, "invalid admin token")
		c.Abort()
		return
	}
	c.Next()
}

// Resave handles POST /api/admin/resave: re-persist and re-index every
// paste record.
func (h *SystemHandler) Resave(c *gin.Context) {
	result, err := h.resave.Run(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
