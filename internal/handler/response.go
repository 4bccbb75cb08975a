package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse describes the standard envelope returned by the API. Meta
// carries paging information on list endpoints and stays empty elsewhere.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

// PageMeta reports the window a list response was cut to.
type PageMeta struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	payload := APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	return c.JSON(status, payload)
}

// SuccessPage sends a successful list response with paging metadata.
func SuccessPage(c echo.Context, message string, data any, meta PageMeta) error {
	payload := APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
		Meta:    meta,
	}
	return c.JSON(http.StatusOK, payload)
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	payload := APIResponse{
		Status:  "error",
		Message: message,
	}
	return c.JSON(status, payload)
}
