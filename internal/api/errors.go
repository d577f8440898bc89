package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/studydeck/internal/api/shared"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/quiz"
	"github.com/phrazzld/studydeck/internal/service"
	"github.com/phrazzld/studydeck/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so
// internal error types never reach clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrBankNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, quiz.ErrSubBankNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrInvalidViewport),
		errors.Is(err, quiz.ErrUnknownAction),
		errors.Is(err, quiz.ErrInvalidScope),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	case errors.Is(err, quiz.ErrNotReady):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that leaks no
// internal detail.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors
	var domainErr *domain.ValidationError
	switch {
	case errors.Is(err, service.ErrBankNotFound), errors.Is(err, store.ErrNotFound):
		return "Question bank not found"
	case errors.Is(err, service.ErrSessionNotFound):
		return "Study session not found"
	case errors.Is(err, quiz.ErrSubBankNotFound):
		return "Sub-bank not found in this session"
	case errors.Is(err, service.ErrInvalidViewport):
		return "Invalid viewport: expected desktop or mobile"
	case errors.Is(err, quiz.ErrUnknownAction):
		return "Unknown action"
	case errors.Is(err, quiz.ErrInvalidScope):
		return "Invalid restart scope: expected all, incorrect or correct"
	case errors.Is(err, quiz.ErrNotReady):
		return "Study session is not ready"
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)
	case errors.As(err, &domainErr):
		return fmt.Sprintf("Invalid %s: %s", domainErr.Field, domainErr.Message)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a short message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}
	fe := validationErrs[0]
	return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "gt", "gte", "min":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted detail. A non-empty override replaces the safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, override string) {
	msg := override
	if msg == "" {
		msg = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), msg, err)
}
