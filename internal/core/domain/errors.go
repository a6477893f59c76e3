package domain

import "net/http"

// AppError is an operational error: an anticipated, user-facing failure with
// a defined HTTP status code. Anything that is not an AppError is treated as
// a programming error and must not leak detail to clients in production.
type AppError struct {
	Message string
	Code    int
}

func (e *AppError) Error() string {
	return e.Message
}

// Status classifies the error for the response envelope: 4xx codes map to
// "fail", everything else to "error".
func (e *AppError) Status() string {
	if e.Code >= 400 && e.Code < 500 {
		return "fail"
	}
	return "error"
}

func NewAppError(message string, code int) *AppError {
	return &AppError{Message: message, Code: code}
}

func NewValidationError(message string) *AppError {
	return &AppError{Message: message, Code: http.StatusBadRequest}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Message: message, Code: http.StatusUnauthorized}
}

func NewForbidden(message string) *AppError {
	return &AppError{Message: message, Code: http.StatusForbidden}
}

func NewNotFound(message string) *AppError {
	return &AppError{Message: message, Code: http.StatusNotFound}
}
