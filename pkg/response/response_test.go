package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"awn-booking/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	slotTaken := apperror.New(apperror.KindConflict, "slot already booked")

	tests := []struct {
		name    string
		err     error
		status  int
		message string
		kind    string
	}{
		{"validation", apperror.New(apperror.KindValidation, "invalid date format"), http.StatusBadRequest, "invalid date format", "validation_error"},
		{"invalid state", apperror.New(apperror.KindInvalidState, "booking is completed"), http.StatusBadRequest, "booking is completed", "invalid_state"},
		{"already cancelled", apperror.New(apperror.KindAlreadyCancelled, "already cancelled"), http.StatusBadRequest, "already cancelled", "already_cancelled"},
		{"conflict wrapped with fmt", fmt.Errorf("create: %w", slotTaken), http.StatusConflict, "slot already booked", "conflict"},
		{"not found", apperror.New(apperror.KindNotFound, "booking not found"), http.StatusNotFound, "booking not found", "not_found"},
		{"forbidden", apperror.New(apperror.KindForbidden, "not yours"), http.StatusForbidden, "not yours", "forbidden"},
		{"unauthorized", apperror.New(apperror.KindUnauthorized, "login required"), http.StatusUnauthorized, "login required", "unauthorized"},
		{"rate limited", apperror.New(apperror.KindRateLimited, "wait before requesting another code"), http.StatusTooManyRequests, "wait before requesting another code", "rate_limited"},
		{"upstream hides cause", apperror.Upstream("failed to save", errors.New("pq: connection reset")), http.StatusInternalServerError, "Failed to save booking", "upstream_store_error"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Failed to save booking", "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			FromError(rec, tt.err, "Failed to save booking")

			assert.Equal(t, tt.status, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.kind, body.Error)
			assert.NotContains(t, rec.Body.String(), "pq:")
		})
	}
}

func TestFromError_DefaultFallback(t *testing.T) {
	rec := httptest.NewRecorder()

	FromError(rec, errors.New("boom"), "")

	assert.Contains(t, rec.Body.String(), "Internal server error")
}
