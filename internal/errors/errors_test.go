package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
}

func TestAPIError(t *testing.T) {
	err := New(http.StatusNotFound, "NOT_FOUND", "gone")
	assert.Equal(t, "gone", err.Error())
	assert.Equal(t, http.StatusNotFound, err.StatusCode)

	detailed := MetricNotFoundError("yield_spread")
	assert.Equal(t, http.StatusNotFound, detailed.StatusCode)
	assert.Equal(t, "METRIC_NOT_FOUND", detailed.ErrorCode)
	assert.Contains(t, detailed.Message, "yield_spread")

	compute := ComputeError("state_yield_stats", fmt.Errorf("boom"))
	assert.Equal(t, http.StatusInternalServerError, compute.StatusCode)
	assert.Equal(t, "boom", compute.Details)
}

func TestErrorToProblem(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/x", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"metric not found", MetricNotFoundError("x"), http.StatusNotFound, TypeMetricNotFound},
		{"no dataset", ErrNoDataset, http.StatusServiceUnavailable, TypeNoDataset},
		{"compute failed", ComputeError("x", fmt.Errorf("boom")), http.StatusInternalServerError, TypeComputeFailed},
		{"rate limited", ErrRateLimitExceeded, http.StatusTooManyRequests, TypeRateLimit},
		{"context cancelled", context.Canceled, http.StatusGatewayTimeout, TypeTimeout},
		{"plain error", fmt.Errorf("something odd"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/analytics/x", problem.Instance)
		})
	}
}

func TestErrorToProblem_WrappedAPIError(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	wrapped := fmt.Errorf("serving metric: %w", ErrNoDataset)
	problem := h.ErrorToProblem(wrapped, req)
	assert.Equal(t, http.StatusServiceUnavailable, problem.Status)
}

func TestHandleError_WritesProblemDocument(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/x", nil)
	rec := httptest.NewRecorder()
	h.HandleError(rec, req, MetricNotFoundError("x"))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeMetricNotFound, body["type"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
	assert.Contains(t, body, "trace_id")
	assert.Equal(t, "METRIC_NOT_FOUND", body["error_code"])
}

func TestProblemDetails_MarshalIncludesExtensions(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "bad", "/x").
		WithExtension("field", "port")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "port", body["field"])
	assert.Equal(t, TypeValidation, body["type"])
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := testHandler()

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/analytics", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
