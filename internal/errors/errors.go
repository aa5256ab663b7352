// Package errors provides the typed application errors of the
// analytics service and an RFC 7807 problem-details handler for the
// HTTP surface. Analytics-layer data problems (dangling references,
// empty inputs, out-of-enum values) are deliberately NOT errors; they
// are row-exclusion policies handled inside the metrics layer. This
// package covers the failures that do surface: unknown metrics, bad
// requests, missing datasets and internal faults.
package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError represents validation errors
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details any) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	// 400 Bad Request
	ErrInvalidRequest   = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrValidationFailed = New(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed")
	ErrInvalidParameter = New(http.StatusBadRequest, "INVALID_PARAMETER", "Invalid parameter value")

	// 404 Not Found
	ErrNotFound       = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrMetricNotFound = New(http.StatusNotFound, "METRIC_NOT_FOUND", "Metric not found")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")

	// 500 Internal Server Error
	ErrInternalServer = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	ErrComputeFailed  = New(http.StatusInternalServerError, "COMPUTE_FAILED", "Metric computation failed")

	// 503 Service Unavailable
	ErrNoDataset = New(http.StatusServiceUnavailable, "NO_DATASET", "No dataset has been loaded yet")
)

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// MetricNotFoundError creates a not found error naming the metric
func MetricNotFoundError(metric string) *APIError {
	return NewWithDetails(http.StatusNotFound, "METRIC_NOT_FOUND", fmt.Sprintf("metric %q not found", metric), metric)
}

// ComputeError creates a computation failure error with details
func ComputeError(metric string, err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, "COMPUTE_FAILED",
		fmt.Sprintf("computation of metric %q failed", metric), err.Error())
}
