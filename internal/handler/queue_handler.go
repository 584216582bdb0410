package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hiresync/validation-queue-api/internal/dto"
	appErrors "github.com/hiresync/validation-queue-api/pkg/errors"
	"github.com/hiresync/validation-queue-api/pkg/response"
)

type queueService interface {
	List(ctx context.Context, query dto.QueueQuery) (*dto.QueueResponse, error)
	Refresh(ctx context.Context) error
}

// QueueHandler exposes the candidate queue endpoints.
type QueueHandler struct {
	service queueService
}

// NewQueueHandler constructs the handler.
func NewQueueHandler(service queueService) *QueueHandler {
	return &QueueHandler{service: service}
}

// List godoc
// @Summary List the candidate queue
// @Tags Queue
// @Produce json
// @Param scope query string false "pending (default) or history"
// @Param q query string false "Search term matched against name, CPF or code"
// @Param status query string false "Exact hiring status; 'all' disables"
// @Param admitted_from query string false "Admission date lower bound (YYYY-MM-DD)"
// @Param admitted_to query string false "Admission date upper bound (YYYY-MM-DD)"
// @Param responsible query string false "Comma separated responsible analysts"
// @Param sort query string false "Column key for explicit sort"
// @Param dir query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /queue [get]
func (h *QueueHandler) List(c *gin.Context) {
	query, err := parseQueueQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, map[string]interface{}{
		"loadedAt": result.LoadedAt,
	})
}

// Refresh godoc
// @Summary Manually refresh the queue snapshot
// @Tags Queue
// @Produce json
// @Success 204 "refreshed"
// @Router /queue/refresh [post]
func (h *QueueHandler) Refresh(c *gin.Context) {
	if err := h.service.Refresh(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func parseQueueQuery(c *gin.Context) (dto.QueueQuery, error) {
	query := dto.QueueQuery{
		Scope:  dto.ScopePending,
		Search: strings.TrimSpace(c.Query("q")),
		Status: strings.TrimSpace(c.Query("status")),
		SortBy: strings.TrimSpace(c.Query("sort")),
	}

	if scope := strings.TrimSpace(c.Query("scope")); scope != "" {
		switch dto.QueueScope(strings.ToLower(scope)) {
		case dto.ScopePending, dto.ScopeHistory:
			query.Scope = dto.QueueScope(strings.ToLower(scope))
		default:
			return query, appErrors.Clone(appErrors.ErrValidation, "scope must be pending or history")
		}
	}

	if raw := strings.TrimSpace(c.Query("admitted_from")); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return query, appErrors.Clone(appErrors.ErrValidation, "admitted_from must be YYYY-MM-DD")
		}
		query.AdmittedFrom = &from
	}
	if raw := strings.TrimSpace(c.Query("admitted_to")); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return query, appErrors.Clone(appErrors.ErrValidation, "admitted_to must be YYYY-MM-DD")
		}
		query.AdmittedTo = &to
	}

	if raw := strings.TrimSpace(c.Query("responsible")); raw != "" {
		parts := strings.Split(raw, ",")
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				query.Responsible = append(query.Responsible, trimmed)
			}
		}
	}

	switch strings.ToLower(strings.TrimSpace(c.Query("dir"))) {
	case "desc":
		query.SortDirection = dto.SortDesc
	case "", "asc":
		query.SortDirection = dto.SortAsc
	default:
		return query, appErrors.Clone(appErrors.ErrValidation, "dir must be asc or desc")
	}

	return query, nil
}
