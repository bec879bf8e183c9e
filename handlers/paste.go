// Package handlers wires HTTP requests to the services. Handlers stay thin:
// request parsing, error-to-status translation, and public representations.
package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davidwtbuxton/captain-pasty/internal/config"
	"github.com/davidwtbuxton/captain-pasty/internal/services"
	"github.com/davidwtbuxton/captain-pasty/models"
	"github.com/davidwtbuxton/captain-pasty/search"
	"github.com/davidwtbuxton/captain-pasty/utils"
)

// AuthorHeader carries the authenticated user's identity, set by the
// fronting auth proxy. Empty means anonymous.
const AuthorHeader = "X-Pasty-User"

// PasteHandler handles paste-related operations
type PasteHandler struct {
	pastes *services.PasteService
	index  *search.Index
	config *config.Config
}

// NewPasteHandler creates a new paste handler
func NewPasteHandler(pastes *services.PasteService, index *search.Index, cfg *config.Config) *PasteHandler {
	return &PasteHandler{
		pastes: pastes,
		index:  index,
		config: cfg,
	}
}

// respondError sends a JSON error response
func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// respondServiceError translates service errors to HTTP statuses
func respondServiceError(c *gin.Context, err error) {
	switch {
	case models.IsValidation(err):
		respondError(c, http.StatusBadRequest, err.Error())
	case models.IsNotFound(err):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		log.Printf("[ERROR] %v", err)
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}

func author(c *gin.Context) string {
	return c.GetHeader(AuthorHeader)
}

// createRequest is the JSON body for POST /api/pastes.
type createRequest struct {
	Description string `json:"description"`
	ForkOf      string `json:"fork_of"`
	Files       []struct {
		Filename string `json:"filename"`
		Content  string `json:"content"`
	} `json:"files"`
}

// Create handles POST /api/pastes
func (h *PasteHandler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	files := make([]services.FileInput, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, services.FileInput{
			Filename: f.Filename,
			Content:  []byte(f.Content),
		})
	}

	paste, err := h.pastes.CreateWithFiles(c.Request.Context(), author(c), req.Description, req.ForkOf, files)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.indexAsync(paste)
	c.JSON(http.StatusCreated, paste.Public(h.config.GetRawBaseURL()))
}

// Fork handles POST /api/pastes/:id/fork
func (h *PasteHandler) Fork(c *gin.Context) {
	paste, err := h.pastes.Fork(c.Request.Context(), author(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.indexAsync(paste)
	c.JSON(http.StatusCreated, paste.Public(h.config.GetRawBaseURL()))
}

// indexAsync indexes the paste off the request path. A failure only delays
// searchability; the re-save task catches the paste up later.
func (h *PasteHandler) indexAsync(paste *models.Paste) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := h.index.IndexPaste(ctx, paste); err != nil {
			log.Printf("[ERROR] indexing paste %s: %v", paste.ID, err)
		}
	}()
}

// Get handles GET /api/pastes/:id
func (h *PasteHandler) Get(c *gin.Context) {
	paste, err := h.pastes.GetOrNotFound(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, paste.Public(h.config.GetRawBaseURL()))
}

// List handles GET /api/pastes: browse and search with optional author,
// content_type, filename and q filters, paginated by the p cursor.
func (h *PasteHandler) List(c *gin.Context) {
	terms := search.BuildQuery(map[string]string{
		"author":       c.Query("author"),
		"content_type": c.Query("content_type"),
		"filename":     c.Query("filename"),
		"q":            c.Query("q"),
	})

	result, err := h.index.Search(c.Request.Context(), search.JoinTerms(terms), c.Query("p"), h.config.PageSize)
	if err != nil {
		log.Printf("[ERROR] search: %v", err)
		respondError(c, http.StatusInternalServerError, "search failed")
		return
	}

	labels := make([]string, 0, len(terms))
	for _, t := range terms {
		labels = append(labels, t.Label)
	}

	pastes := make([]models.PublicPaste, 0, len(result.Pastes))
	for _, p := range result.Pastes {
		pastes = append(pastes, p.Public(h.config.GetRawBaseURL()))
	}

	resp := gin.H{
		"pastes":   pastes,
		"terms":    labels,
		"has_next": result.HasNext,
	}
	if result.HasNext {
		resp["next"] = result.NextCursor
	}
	c.JSON(http.StatusOK, resp)
}

// Raw handles GET /raw/:id/*path, serving a file's stored bytes. path is the
// file's relative path within the paste, e.g. "1/setup.py".
func (h *PasteHandler) Raw(c *gin.Context) {
	paste, err := h.pastes.GetOrNotFound(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	relativePath := strings.TrimPrefix(c.Param("path"), "/")
	file, content, err := h.pastes.GetFileContent(c.Request.Context(), paste, relativePath)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	escaped := url.PathEscape(file.Filename)
	disposition := "attachment"
	if utils.IsTextContent(file.ContentType) {
		disposition = "inline"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q; filename*=UTF-8''%s", disposition, file.Filename, escaped))
	c.Data(http.StatusOK, file.ContentType, content)
}
