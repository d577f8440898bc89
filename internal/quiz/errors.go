package quiz

import "errors"

var (
	// ErrNotReady is returned when a command reaches an orchestrator whose
	// bank has not finished loading.
	ErrNotReady = errors.New("session is not ready")

	// ErrUnknownAction is returned for a command with an unrecognised action.
	ErrUnknownAction = errors.New("unknown action")

	// ErrSubBankNotFound is returned when switching to a bank that is not a
	// sibling or child of the loaded bank.
	ErrSubBankNotFound = errors.New("sub-bank not found")

	// ErrInvalidScope is returned for a restart with an unknown scope.
	ErrInvalidScope = errors.New("invalid restart scope")
)
