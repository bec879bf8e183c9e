package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davidwtbuxton/captain-pasty/internal/config"
	"github.com/davidwtbuxton/captain-pasty/internal/services"
	"github.com/davidwtbuxton/captain-pasty/models"
)

// StarHandler handles star bookkeeping endpoints
type StarHandler struct {
	stars  *services.StarService
	config *config.Config
}

// NewStarHandler creates a new star handler
func NewStarHandler(stars *services.StarService, cfg *config.Config) *StarHandler {
	return &StarHandler{stars: stars, config: cfg}
}

// Star handles PUT /api/pastes/:id/star
func (h *StarHandler) Star(c *gin.Context) {
	who := author(c)
	if who == "" {
		respondError(c, http.StatusUnauthorized, "starring requires a signed-in user")
		return
	}

	star, err := h.stars.Star(c.Request.Context(), who, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       star.ID,
		"created":  star.Created,
		"paste_id": star.PasteID,
	})
}

// Unstar handles DELETE /api/pastes/:id/star
func (h *StarHandler) Unstar(c *gin.Context) {
	who := author(c)
	if who == "" {
		respondError(c, http.StatusUnauthorized, "starring requires a signed-in user")
		return
	}

	if err := h.stars.Unstar(c.Request.Context(), who, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Starred handles GET /api/starred
func (h *StarHandler) Starred(c *gin.Context) {
	who := author(c)
	if who == "" {
		respondError(c, http.StatusUnauthorized, "listing stars requires a signed-in user")
		return
	}

	pastes, err := h.stars.ListStarredPastes(c.Request.Context(), who, 0)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	public := make([]models.PublicPaste, 0, len(pastes))
	for _, p := range pastes {
		public = append(public, p.Public(h.config.GetRawBaseURL()))
	}
	c.JSON(http.StatusOK, gin.H{"pastes": public})
}
