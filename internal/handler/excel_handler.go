package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadhive/superapp/api/internal/service"
)

const exportFilename = "leads_backup.xlsx"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExcelHandler moves leads in and out of xlsx workbooks.
type ExcelHandler struct {
	excel *service.ExcelService
	leads *service.LeadsService
}

// NewExcelHandler creates a new handler instance.
func NewExcelHandler(excel *service.ExcelService, leads *service.LeadsService) *ExcelHandler {
	return &ExcelHandler{excel: excel, leads: leads}
}

// Export handles GET /leads/export requests and streams the workbook.
func (h *ExcelHandler) Export(c echo.Context) error {
	leads, err := h.leads.AllLeads(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to load leads")
	}

	f, err := h.excel.ExportLeads(leads)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to build workbook")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return Error(c, http.StatusInternalServerError, "failed to render workbook")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+exportFilename+`"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Import handles POST /leads/import requests with a multipart xlsx file.
// Imported rows are merged into persisted state through the deduplicator.
func (h *ExcelHandler) Import(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Error(c, http.StatusBadRequest, "missing xlsx file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, http.StatusBadRequest, "unable to open file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Error(c, http.StatusBadRequest, "unable to read file")
	}

	imported, err := h.excel.ImportLeads(data)
	if err != nil {
		var validationErr service.ExcelValidationError
		if errors.As(err, &validationErr) {
			return Error(c, http.StatusBadRequest, validationErr.Error())
		}
		return Error(c, http.StatusInternalServerError, "failed to process workbook")
	}

	inserted, err := h.leads.ImportLeads(c.Request().Context(), imported)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to persist imported leads")
	}

	return Success(c, http.StatusOK, "leads imported", map[string]any{
		"parsed":   len(imported),
		"inserted": inserted,
	})
}
