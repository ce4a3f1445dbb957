package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/core/ports/driving"
)

// Handler serves the /api/v1 routes.
type Handler struct {
	search  driving.SearchService
	dataset driving.DatasetService
}

// NewHandler creates a Handler.
func NewHandler(search driving.SearchService, dataset driving.DatasetService) *Handler {
	return &Handler{search: search, dataset: dataset}
}

// Register attaches the API routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/search", h.searchRecords)
	rg.GET("/status", h.status)
	rg.POST("/reload", h.reload)
}

type recordResponse struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	AnswerLines []string `json:"answer_lines"`
	Category    string   `json:"category,omitempty"`
}

type searchResponse struct {
	State   domain.QueryState `json:"state"`
	Query   string            `json:"query"`
	Count   int               `json:"count"`
	Total   int               `json:"total"`
	Version uint64            `json:"version,omitempty"`
	Error   string            `json:"error,omitempty"`
	Results []recordResponse  `json:"results"`
}

func (h *Handler) searchRecords(c *gin.Context) {
	query := c.Query("q")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	result, err := h.search.Search(c.Request.Context(), query)
	resp := searchResponse{
		State:   result.State,
		Query:   query,
		Total:   result.Count(),
		Version: result.Version,
		Results: []recordResponse{},
	}

	if result.State == domain.StateNotReady {
		if err != nil {
			resp.Error = err.Error()
		}
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	records := result.Records
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	for i := range records {
		lines := records[i].AnswerLines()
		if lines == nil {
			lines = []string{}
		}
		resp.Results = append(resp.Results, recordResponse{
			ID:          records[i].ID,
			Question:    records[i].Question,
			Answer:      records[i].Answer,
			AnswerLines: lines,
			Category:    records[i].Category,
		})
	}
	resp.Count = len(resp.Results)

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) status(c *gin.Context) {
	c.JSON(http.StatusOK, h.dataset.Status())
}

func (h *Handler) reload(c *gin.Context) {
	if _, err := h.dataset.Load(c.Request.Context()); err != nil {
		c.JSON(reloadStatusCode(err), gin.H{"ok": false, "error": err.Error(), "status": h.dataset.Status()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": h.dataset.Status()})
}

// reloadStatusCode maps load errors onto HTTP status codes.
func reloadStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingColumn), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrTokenizerInitFailed), errors.Is(err, domain.ErrNotReady),
		errors.Is(err, domain.ErrNoSource):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrLoadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// health reports liveness. Readiness is informational and never fails the check.
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "ready": h.dataset.Status().Ready})
}
