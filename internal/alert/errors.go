package alert

import "errors"

var (
	ErrAlertNotFound     = errors.New("alert not found")
	ErrInvalidTransition = errors.New("invalid alert status transition")
	ErrForbidden         = errors.New("operation not permitted for caller")
	ErrActionNotFound    = errors.New("recommended action not found")
)

// Validation error codes reported per field.
const (
	CodeFieldRequired = 140001
	CodeInvalidValue  = 140002
)
