package models

import (
	"fmt"
	"net/http"
)

// APIError is the internal error carried from services up to the HTTP
// envelope. ErrorType matches the symbolic class names on the wire.
type APIError struct {
	StatusCode int                 `json:"status_code"`
	ErrorType  string              `json:"error_type"`
	Detail     string              `json:"detail,omitempty"`
	Fields     map[string][]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.ErrorType, e.Detail)
	}
	return e.ErrorType
}

func NewValidationError(fields map[string][]string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, ErrorType: "ValidationError", Fields: fields}
}

func NewFieldError(field, message string) *APIError {
	return NewValidationError(map[string][]string{field: {message}})
}

func NewBadRequest(detail string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, ErrorType: "BadRequest", Detail: detail}
}

func NewAuthenticationFailed(detail string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, ErrorType: "AuthenticationFailed", Detail: detail}
}

func NewPermissionDenied(detail string) *APIError {
	return &APIError{StatusCode: http.StatusForbidden, ErrorType: "PermissionDenied", Detail: detail}
}

func NewNotFound(detail string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, ErrorType: "NotFound", Detail: detail}
}

func NewMethodNotAllowed(detail string) *APIError {
	return &APIError{StatusCode: http.StatusMethodNotAllowed, ErrorType: "MethodNotAllowed", Detail: detail}
}

func NewConflict(detail string) *APIError {
	return &APIError{StatusCode: http.StatusConflict, ErrorType: "Conflict", Detail: detail}
}

func NewUnprocessableEntity(detail string) *APIError {
	return &APIError{StatusCode: http.StatusUnprocessableEntity, ErrorType: "UnprocessableEntity", Detail: detail}
}

func NewInternalError() *APIError {
	return &APIError{StatusCode: http.StatusInternalServerError, ErrorType: "InternalError", Detail: "Internal server error"}
}
