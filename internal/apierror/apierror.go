// Package apierror defines the closed set of error kinds the API can return
// and their mapping to HTTP status codes.
package apierror

import "net/http"

// Code identifies an error kind on the wire.
type Code string

const (
	CodeValidation         Code = "validation_error"
	CodeUnauthorized       Code = "unauthorized"
	CodeInvalidToken       Code = "invalid_token"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeUsernameTaken      Code = "username_taken"
	CodeUserNotFound       Code = "user_not_found"
	CodeNotFound           Code = "not_found"
	CodeAlreadyFriends     Code = "already_friends"
	CodeRequestAlreadySent Code = "request_already_sent"
	CodeRequestExists      Code = "request_exists"
	CodeInternal           Code = "internal_server_error"
)

var statusByCode = map[Code]int{
	CodeValidation:         http.StatusBadRequest,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeInvalidToken:       http.StatusUnauthorized,
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeUsernameTaken:      http.StatusConflict,
	CodeUserNotFound:       http.StatusNotFound,
	CodeNotFound:           http.StatusNotFound,
	CodeAlreadyFriends:     http.StatusBadRequest,
	CodeRequestAlreadySent: http.StatusBadRequest,
	CodeRequestExists:      http.StatusBadRequest,
	CodeInternal:           http.StatusInternalServerError,
}

// Error is an API error with a wire code and an HTTP status derived from it.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Status returns the HTTP status for the error's code.
func (e *Error) Status() int {
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// New builds an error of the given kind.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Validation is shorthand for a 400 validation error.
func Validation(message string) *Error {
	return New(CodeValidation, message)
}

// NotFound is shorthand for a 404 on a missing resource.
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// Internal wraps an unexpected failure. detail is only rendered in development.
func Internal(detail string) *Error {
	return &Error{Code: CodeInternal, Message: "Internal server error", Details: detail}
}
