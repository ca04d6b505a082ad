package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventpay/internal/domain"
	"eventpay/internal/repository"
	"eventpay/internal/service"
)

// Reconciler is the engine surface the notification channels call. All three
// channels normalize into a canonical event (or manual decision) and never
// touch the stores themselves.
type Reconciler interface {
	Reconcile(ctx context.Context, event *domain.GatewayEvent) (*service.ReconcileResult, error)
	ReconcileManual(ctx context.Context, decision service.ManualDecision) (*service.ReconcileResult, error)
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrRegistrationNotFound):
		return http.StatusNotFound

	// Malformed or unauthenticated notification input - Bad Request
	case errors.Is(err, service.ErrMissingParameters),
		errors.Is(err, service.ErrHashMismatch),
		errors.Is(err, service.ErrInvalidRegistrationID),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrMinimumAmount),
		errors.Is(err, service.ErrInvalidManualAction),
		errors.Is(err, service.ErrInvalidOperator):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrRegistrationCancelled):
		return http.StatusConflict

	// Service unavailable
	case errors.Is(err, service.ErrGatewayMisconfigured):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// errorCode renders an error as a short machine-readable code for redirect
// query strings.
func errorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrMissingParameters):
		return "missing_parameters"
	case errors.Is(err, service.ErrHashMismatch):
		return "hash_mismatch"
	case errors.Is(err, service.ErrOrderNotFound):
		return "order_not_found"
	case errors.Is(err, service.ErrRegistrationNotFound):
		return "registration_not_found"
	default:
		return "internal_error"
	}
}
