// Package apperr defines the closed set of error variants that cross module
// boundaries. Because cross-module calls travel through the service
// container as JSON, expected failures are carried inside response payloads
// as an *Error rather than reconstructed from error strings; the API module
// matches on Code exhaustively when mapping to HTTP responses.
package apperr

// Code identifies an error variant.
type Code string

const (
	CodeValidation      Code = "validation_failed"
	CodeUnauthenticated Code = "unauthenticated"
	CodeNotFound        Code = "not_found"
	CodeConflict        Code = "conflict"
	CodeInternal        Code = "internal"
)

// Error is a tagged, JSON-serializable error. Fields is populated only for
// validation failures and maps input field names to messages.
type Error struct {
	Code    Code              `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Validation returns a validation_failed error carrying a field error map.
func Validation(fields map[string]string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// Unauthenticated returns the uniform unauthenticated error. Missing,
// malformed, badly signed and expired credentials all collapse to this one
// variant so the cause is never distinguishable to a client.
func Unauthenticated() *Error {
	return &Error{
		Code:    CodeUnauthenticated,
		Message: "Authentication required",
	}
}

// NotFound returns a not_found error. Rows owned by another user produce the
// same variant as rows that do not exist.
func NotFound(message string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: message,
	}
}

// Conflict returns a conflict error (e.g. duplicate email).
func Conflict(message string) *Error {
	return &Error{
		Code:    CodeConflict,
		Message: message,
	}
}

// Internal returns an internal error with a generic client-safe message.
// The underlying cause must be logged at the point of failure, never
// serialized.
func Internal() *Error {
	return &Error{
		Code:    CodeInternal,
		Message: "An internal error occurred",
	}
}

// CodeOf extracts the variant code from an error. Unknown error types are
// treated as internal failures.
func CodeOf(err error) Code {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return CodeInternal
}
