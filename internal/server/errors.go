package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/printhaus/printhaus/internal/catalog/domain"
	quotedomain "github.com/printhaus/printhaus/internal/quote/domain"
	"gorm.io/gorm"
)

// errorResponse is the envelope for every failed request.
type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
)

// ErrorHandlingMiddleware converts the last gin error into the uniform
// {ok:false, error} envelope. Handlers push errors with AbortWithError and
// never write error bodies themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{OK: false, Error: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "Missing required fields"
	case errors.Is(err, quotedomain.ErrInvalidQuantity):
		return http.StatusBadRequest, "Quantity must be a positive integer"
	case errors.Is(err, quotedomain.ErrServiceNotFound):
		return http.StatusNotFound, "Service not found"
	case errors.Is(err, quotedomain.ErrNoMainConfiguration):
		return http.StatusNotFound, "No matching main price configuration found"
	case errors.Is(err, quotedomain.ErrNoTiers):
		return http.StatusNotFound, "No pricing tiers found"
	case errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "Service not found"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "Too many requests"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// classifyErrorForLog tags request-log entries without leaking messages.
func classifyErrorForLog(err error) (string, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "validation", "invalid_request"
	case errors.Is(err, quotedomain.ErrInvalidQuantity):
		return "validation", "invalid_quantity"
	case errors.Is(err, quotedomain.ErrServiceNotFound):
		return "not_found", "service_not_found"
	case errors.Is(err, quotedomain.ErrNoMainConfiguration):
		return "not_found", "no_main_configuration"
	case errors.Is(err, quotedomain.ErrNoTiers):
		return "not_found", "no_tiers_configured"
	case errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return "not_found", "not_found"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited", "rate_limited"
	default:
		return "internal", "internal_error"
	}
}
