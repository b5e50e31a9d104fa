package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/borderhop/internal/httputil"
	"github.com/persistorai/borderhop/internal/metrics"
	"github.com/persistorai/borderhop/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeNotFound        = "not_found"
	ErrCodeInternalError   = "internal_error"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeValidationError = "validation_error"
	ErrCodeUnknownCountry  = "unknown_country"
	ErrCodeUnavailable     = "unavailable"
	ErrCodeNotConfigured   = "not_configured"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// classifyRouteError maps a route service error to an HTTP status and code.
func classifyRouteError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, models.ErrMissingFrom),
		errors.Is(err, models.ErrMissingTo),
		errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest, ErrCodeValidationError, err.Error()
	case errors.Is(err, models.ErrUnknownCountry):
		return http.StatusBadRequest, ErrCodeUnknownCountry, err.Error()
	case errors.Is(err, models.ErrDirectoryUnavailable):
		return http.StatusServiceUnavailable, ErrCodeUnavailable, "country directory is unavailable, try again later"
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, "internal server error"
	}
}
