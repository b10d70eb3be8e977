package shiftapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure kinds, matchable with errors.Is against any *APIError.
var (
	ErrNetwork    = errors.New("network error")
	ErrServer     = errors.New("server error")
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("shift not found")
)

// Machine codes carried by APIError.Code.
const (
	CodeNetwork    = "NETWORK_ERROR"
	CodeServer     = "SERVER_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
)

const (
	networkErrorMessage = "Network error. Please check your connection and ensure the API server is running."
	fallbackMessage     = "An unexpected error occurred"
)

// APIError is the single failure shape returned by every Client operation.
type APIError struct {
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`

	kind  error
	cause error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (http %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Is matches the kind sentinel.
func (e *APIError) Is(target error) bool {
	return e.kind != nil && target == e.kind
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// IsNetwork reports whether no response was received at all.
func (e *APIError) IsNetwork() bool {
	return e.Code == CodeNetwork
}

func networkError(cause error) *APIError {
	return &APIError{
		Message: networkErrorMessage,
		Code:    CodeNetwork,
		kind:    ErrNetwork,
		cause:   cause,
	}
}

// responseError builds an APIError for a non-2xx reply. serverMessage is the
// "message" field of the body, empty when the body carried none.
func responseError(status int, serverMessage string) *APIError {
	msg := serverMessage
	if msg == "" {
		msg = fallbackMessage
	}

	e := &APIError{Message: msg, StatusCode: status}
	switch status {
	case http.StatusNotFound:
		e.Code, e.kind = CodeNotFound, ErrNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		e.Code, e.kind = CodeValidation, ErrValidation
	default:
		e.Code, e.kind = CodeServer, ErrServer
	}
	return e
}

// AsAPIError extracts the APIError from err, wrapping foreign errors as
// generic server failures so callers always get one shape.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Message: err.Error(), Code: CodeServer, kind: ErrServer, cause: err}
}
