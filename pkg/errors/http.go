package errors

import "net/http"

// HTTPError is an error already translated for the HTTP surface.
type HTTPError struct {
	Code       int
	Message    string
	StatusCode int
}

// NewHTTPError builds an HTTPError. A zero statusCode means 400.
func NewHTTPError(code int, message string, statusCode int) *HTTPError {
	if statusCode == 0 {
		statusCode = http.StatusBadRequest
	}
	return &HTTPError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func NewUnauthorizedHTTPError() *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, "Unauthorized", http.StatusUnauthorized)
}

func NewForbiddenHTTPError() *HTTPError {
	return NewHTTPError(http.StatusForbidden, "Forbidden", http.StatusForbidden)
}

func (e *HTTPError) Error() string {
	return e.Message
}
