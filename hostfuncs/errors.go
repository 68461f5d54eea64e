package hostfuncs

import (
	"bytes"
	"encoding/json"
)

// Error kinds carried in ErrorResponse.Error.
const (
	KindValidation = "VALIDATION_ERROR"
	KindNotFound   = "NOT_FOUND"
	KindCommand    = "COMMAND_ERROR"
	KindInternal   = "INTERNAL_ERROR"
)

// ErrorResponse represents a structured error that can be returned as JSON to callers.
// This ensures callers receive consistent, parseable errors instead of transport failures.
type ErrorResponse struct {
	// Error is a machine-readable error kind (e.g., "VALIDATION_ERROR", "COMMAND_ERROR").
	Error string `json:"error"`

	// Message is a human-readable error description.
	Message string `json:"message"`

	// Code is a numeric error code that mirrors HTTP semantics (e.g., 400, 422, 500).
	Code int `json:"code"`
}

// ToJSON serializes the ErrorResponse to JSON bytes.
// Returns nil if serialization fails (which should never happen for this simple type).
func (e ErrorResponse) ToJSON() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}

// NewValidationError creates an error response for bad input (e.g., malformed JSON).
func NewValidationError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   KindValidation,
		Message: message,
		Code:    400,
	}
}

// NewNotFoundError creates an error response for unknown command names.
func NewNotFoundError(name string) ErrorResponse {
	return ErrorResponse{
		Error:   KindNotFound,
		Message: "unknown command: " + name,
		Code:    404,
	}
}

// NewCommandError creates an error response for a command that ran and failed.
// The message is the error string as-is, so callers see e.g.
// "open /tmp/x: no such file or directory".
func NewCommandError(err error) ErrorResponse {
	return ErrorResponse{
		Error:   KindCommand,
		Message: err.Error(),
		Code:    422,
	}
}

// NewInternalError creates an error response for unexpected failures.
func NewInternalError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   KindInternal,
		Message: message,
		Code:    500,
	}
}

// NewPanicError creates an error response for recovered panics.
func NewPanicError(panicValue any) ErrorResponse {
	var msg string
	if err, ok := panicValue.(error); ok {
		msg = err.Error()
	} else if s, ok := panicValue.(string); ok {
		msg = s
	} else {
		msg = "panic recovered"
	}
	return ErrorResponse{
		Error:   KindInternal,
		Message: "panic: " + msg,
		Code:    500,
	}
}

// ParseErrorResponse reports whether resp is an ErrorResponse envelope.
// Command values are JSON strings or objects without the envelope's fields, so
// an object carrying a known kind and a non-zero code is treated as a failure.
func ParseErrorResponse(resp []byte) (ErrorResponse, bool) {
	trimmed := bytes.TrimSpace(resp)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrorResponse{}, false
	}

	var e ErrorResponse
	if err := json.Unmarshal(trimmed, &e); err != nil {
		return ErrorResponse{}, false
	}
	if e.Code == 0 || !isKnownKind(e.Error) {
		return ErrorResponse{}, false
	}
	return e, true
}

func isKnownKind(kind string) bool {
	switch kind {
	case KindValidation, KindNotFound, KindCommand, KindInternal:
		return true
	}
	return false
}
