package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/validation"
)

// TestParseJSON tests the parseJSON helper function.
// This is an internal test (package handlers, not handlers_test) because
// parseJSON is unexported.
func TestParseJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid body", `{"owner":"anna","name":"IKE"}`, false},
		{"unknown field", `{"owner":"anna","fund":"x"}`, true},
		{"trailing data", `{"owner":"anna"}{"owner":"piotr"}`, true},
		{"malformed", `{"owner":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			got, err := parseJSON[request.CreatePortfolioRequest](req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.Owner != "anna" {
				t.Errorf("Expected owner anna, got %q", got.Owner)
			}
		})
	}
}

// TestRespondServiceError tests the mapping of service errors to HTTP statuses.
//
// WHY: Every handler relies on this mapping. Wrapped sentinel errors must still
// resolve to their status, and unknown errors must not leak as 4xx.
func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", &validation.Error{Fields: map[string]string{"name": "required"}}, http.StatusBadRequest},
		{"date range", validation.ErrInvalidDateRange, http.StatusBadRequest},
		{"frequency", fmt.Errorf("%w: Y", apperrors.ErrInvalidFrequency), http.StatusBadRequest},
		{"portfolio", apperrors.ErrPortfolioNotFound, http.StatusNotFound},
		{"bond", fmt.Errorf("lookup: %w", apperrors.ErrBondNotFound), http.StatusNotFound},
		{"holding", apperrors.ErrHoldingNotFound, http.StatusNotFound},
		{"transaction", apperrors.ErrTransactionNotFound, http.StatusNotFound},
		{"duplicate", apperrors.ErrDuplicateEntry, http.StatusConflict},
		{"inflation", apperrors.ErrInflationUnavailable, http.StatusServiceUnavailable},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			respondServiceError(w, tt.err, "fallback")

			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}

			var body response.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode error body: %v", err)
			}
			if body.Error == "" {
				t.Error("Expected error message in body")
			}
		})
	}
}
