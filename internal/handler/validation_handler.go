package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hiresync/validation-queue-api/internal/dto"
	"github.com/hiresync/validation-queue-api/internal/models"
	appErrors "github.com/hiresync/validation-queue-api/pkg/errors"
	"github.com/hiresync/validation-queue-api/pkg/response"
)

type validationService interface {
	Validate(ctx context.Context, code string, req dto.ValidateRequest, actor *models.JWTClaims) (*models.ValidationEvent, error)
	Rollback(ctx context.Context, eventID string, req dto.RollbackRequest, actor *models.JWTClaims) (*models.ValidationEvent, error)
	AuditLog(ctx context.Context, code string) ([]models.ValidationEvent, error)
}

// ValidationHandler exposes the validate/rollback workflow endpoints.
type ValidationHandler struct {
	service validationService
}

// NewValidationHandler constructs the handler.
func NewValidationHandler(service validationService) *ValidationHandler {
	return &ValidationHandler{service: service}
}

// Validate godoc
// @Summary Validate a candidate
// @Tags Validation
// @Accept json
// @Produce json
// @Param code path string true "Candidate code"
// @Param payload body dto.ValidateRequest true "Validation payload"
// @Success 201 {object} response.Envelope
// @Router /candidates/{code}/validate [post]
func (h *ValidationHandler) Validate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid validation payload"))
		return
	}

	event, err := h.service.Validate(c.Request.Context(), c.Param("code"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, event)
}

// Rollback godoc
// @Summary Roll back a validation event
// @Tags Validation
// @Accept json
// @Produce json
// @Param id path string true "Validation event ID"
// @Param payload body dto.RollbackRequest true "Rollback reason"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/rollback [post]
func (h *ValidationHandler) Rollback(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.RollbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid rollback payload"))
		return
	}

	event, err := h.service.Rollback(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event)
}

// AuditLog godoc
// @Summary List a candidate's validation events
// @Tags Validation
// @Produce json
// @Param code path string true "Candidate code"
// @Success 200 {object} response.Envelope
// @Router /candidates/{code}/events [get]
func (h *ValidationHandler) AuditLog(c *gin.Context) {
	events, err := h.service.AuditLog(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events)
}
