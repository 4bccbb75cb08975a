package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/leadhive/superapp/api/internal/dto"
	"github.com/leadhive/superapp/api/internal/service"
)

// SearchHandler runs provider searches and serves the search history.
type SearchHandler struct {
	leads   *service.LeadsService
	prompts *service.PromptService
	history *service.HistoryService
}

// NewSearchHandler creates a new handler instance.
func NewSearchHandler(leads *service.LeadsService, prompts *service.PromptService, history *service.HistoryService) *SearchHandler {
	return &SearchHandler{leads: leads, prompts: prompts, history: history}
}

// Search handles POST /search requests.
func (h *SearchHandler) Search(c echo.Context) error {
	var req dto.SearchRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	result, err := h.leads.Ingest(c.Request().Context(), req.Query, strings.TrimSpace(req.Location), req.MaxResults)
	if err != nil {
		if errors.Is(err, service.ErrQueryRequired) {
			return Error(c, http.StatusBadRequest, "query is required")
		}
		return Error(c, http.StatusBadGateway, err.Error())
	}

	message := "search completed"
	if !result.Saved {
		message = "search completed, results were not persisted"
	}
	return Success(c, http.StatusOK, message, result)
}

// Prompt handles POST /search/prompt requests: a free-text prompt is
// parsed into a structured query and then executed like a plain search.
func (h *SearchHandler) Prompt(c echo.Context) error {
	var req dto.PromptSearchRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	parsed, err := h.prompts.Parse(req)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	result, err := h.leads.Ingest(c.Request().Context(), parsed.Query, parsed.Location, req.MaxResults)
	if err != nil {
		return Error(c, http.StatusBadGateway, err.Error())
	}
	return Success(c, http.StatusOK, "prompt search completed", result)
}

// Searches handles GET /searches requests.
func (h *SearchHandler) Searches(c echo.Context) error {
	limit := parseIntDefault(c.QueryParam("limit"), 50)

	searches, err := h.leads.Searches(c.Request().Context(), limit)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list searches")
	}
	return Success(c, http.StatusOK, "searches retrieved", searches)
}

// History handles GET /search/history requests.
func (h *SearchHandler) History(c echo.Context) error {
	terms, err := h.history.SearchHistory(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to read search history")
	}
	return Success(c, http.StatusOK, "search history retrieved", terms)
}

// Backups handles GET /search/backups requests.
func (h *SearchHandler) Backups(c echo.Context) error {
	snapshots, err := h.history.Backups(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to read backups")
	}
	return Success(c, http.StatusOK, "backups retrieved", snapshots)
}

// Restore handles POST /search/restore requests: leads from all stored
// snapshots are merged back into persisted state through the deduplicator.
func (h *SearchHandler) Restore(c echo.Context) error {
	ctx := c.Request().Context()

	restored, err := h.history.RestoreLeads(ctx)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to restore backups")
	}

	inserted, err := h.leads.ImportLeads(ctx, restored)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to persist restored leads")
	}
	return Success(c, http.StatusOK, "backups restored", map[string]any{
		"restored": len(restored),
		"inserted": inserted,
	})
}
