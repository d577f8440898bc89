package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/quiz"
	"github.com/phrazzld/studydeck/internal/service"
	"github.com/phrazzld/studydeck/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bank not found", service.ErrBankNotFound, http.StatusNotFound},
		{"session not found", service.ErrSessionNotFound, http.StatusNotFound},
		{"store not found", fmt.Errorf("lookup: %w", store.ErrBankNotFound), http.StatusNotFound},
		{"sub-bank not found", quiz.ErrSubBankNotFound, http.StatusNotFound},
		{"invalid viewport", service.ErrInvalidViewport, http.StatusBadRequest},
		{"unknown action", fmt.Errorf("%w: dance", quiz.ErrUnknownAction), http.StatusBadRequest},
		{"invalid scope", quiz.ErrInvalidScope, http.StatusBadRequest},
		{"domain validation", domain.NewValidationError("name", "required", nil), http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"not ready", quiz.ErrNotReady, http.StatusConflict},
		{"service error", &service.ServiceError{Operation: "catalog", Err: errors.New("boom")}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Study session not found", GetSafeErrorMessage(service.ErrSessionNotFound))
	assert.Equal(t, "Invalid name: required", GetSafeErrorMessage(domain.NewValidationError("name", "required", nil)))

	internal := errors.New("pq: relation \"question_banks\" does not exist")
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(internal))
}

func TestSanitizeValidationError(t *testing.T) {
	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("x")))
	assert.Equal(t, "Invalid scope: invalid value",
		SanitizeValidationError(validateStruct(ActionRequest{Action: "restart", Scope: "most"})))
}
