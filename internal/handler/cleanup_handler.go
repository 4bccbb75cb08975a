package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadhive/superapp/api/internal/dto"
	"github.com/leadhive/superapp/api/internal/service"
)

// CleanupHandler exposes the bulk phone-cleanup endpoints.
type CleanupHandler struct {
	service *service.CleanupService
}

// NewCleanupHandler creates a new handler instance.
func NewCleanupHandler(service *service.CleanupService) *CleanupHandler {
	return &CleanupHandler{service: service}
}

// Analyze handles GET /leads/cleanup requests.
func (h *CleanupHandler) Analyze(c echo.Context) error {
	report, err := h.service.Analyze(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to analyze leads")
	}
	return Success(c, http.StatusOK, "cleanup analysis", report)
}

// Format handles POST /leads/cleanup/format requests.
func (h *CleanupHandler) Format(c echo.Context) error {
	var req dto.CleanupSelectionRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	report, err := h.service.FormatSelected(c.Request().Context(), req)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}
	return Success(c, http.StatusOK, "phones formatted", report)
}

// Delete handles POST /leads/cleanup/delete requests. The payload must
// carry confirm=true or nothing is removed.
func (h *CleanupHandler) Delete(c echo.Context) error {
	var req dto.CleanupSelectionRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	report, err := h.service.DeleteSelected(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrConfirmationRequired) {
			return Error(c, http.StatusPreconditionRequired, "confirmation required")
		}
		return Error(c, http.StatusBadRequest, err.Error())
	}
	return Success(c, http.StatusOK, "leads deleted", report)
}
