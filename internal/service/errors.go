package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/studydeck/internal/store"
)

// Common service errors. The API layer maps these to HTTP status codes.
var (
	// ErrBankNotFound indicates that the requested bank does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrBankNotFound = errors.New("question bank not found")

	// ErrSessionNotFound indicates that the session id is unknown or has expired.
	// API layer should map this to HTTP 404 Not Found.
	ErrSessionNotFound = errors.New("study session not found")

	// ErrInvalidViewport indicates an unsupported viewport in a session request.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidViewport = errors.New("invalid viewport")
)

// ServiceError wraps unexpected failures with the operation that raised them.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_session", "catalog")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err for operation. Store "not found" errors are
// returned as ErrBankNotFound rather than wrapped.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrBankNotFound) || store.IsNotFoundError(err) {
		return ErrBankNotFound
	}
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
