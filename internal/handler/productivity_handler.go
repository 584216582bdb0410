package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hiresync/validation-queue-api/internal/models"
	"github.com/hiresync/validation-queue-api/pkg/response"
)

type productivityService interface {
	All(ctx context.Context) ([]models.AnalystProductivity, error)
	ForAnalyst(ctx context.Context, analyst string) (*models.AnalystProductivity, error)
}

// ProductivityHandler exposes per-analyst productivity counters.
type ProductivityHandler struct {
	service productivityService
}

// NewProductivityHandler constructs the handler.
func NewProductivityHandler(service productivityService) *ProductivityHandler {
	return &ProductivityHandler{service: service}
}

// All godoc
// @Summary Productivity counters for all analysts
// @Tags Productivity
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /productivity [get]
func (h *ProductivityHandler) All(c *gin.Context) {
	aggregates, err := h.service.All(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, aggregates)
}

// ForAnalyst godoc
// @Summary Productivity counters for one analyst
// @Tags Productivity
// @Produce json
// @Param analyst path string true "Analyst identity or display name"
// @Success 200 {object} response.Envelope
// @Router /productivity/{analyst} [get]
func (h *ProductivityHandler) ForAnalyst(c *gin.Context) {
	aggregate, err := h.service.ForAnalyst(c.Request.Context(), c.Param("analyst"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, aggregate)
}
