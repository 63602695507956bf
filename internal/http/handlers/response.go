package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moneer95/photocat/internal/catalog"
	"github.com/moneer95/photocat/internal/storage"
)

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// respondCatalogError translates catalog and storage errors to an HTTP
// status and a stable error code, then writes the error envelope.
func respondCatalogError(c *gin.Context, err error) {
	status, code, msg := mapCatalogError(err)
	respondError(c, status, code, msg)
}

func mapCatalogError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "photo not found"
	case errors.Is(err, catalog.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "you do not own this photo"
	case errors.Is(err, catalog.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password"
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "storage backend unavailable"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}
