package api

import (
	"net/http"

	"github.com/labstack/echo/v5"
)

// FileList is the body of GET /v1/files.
type FileList struct {
	Files []string `json:"files"`
}

// APIError is the error envelope returned by every failing endpoint.
type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeServerError(c *echo.Context, msg string) error {
	return writeError(c, http.StatusInternalServerError, "server_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": APIError{Type: errType, Message: msg},
	})
}
