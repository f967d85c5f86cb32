package response

import "alert-srv/pkg/errors"

// Resp is the JSON envelope of every REST response.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
}

// ErrorMapping translates domain sentinel errors to HTTP errors.
type ErrorMapping map[error]*errors.HTTPError
