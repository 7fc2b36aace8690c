package dto

import (
	"errors"
	"net/http"

	"github.com/craftbooks/settlement-backend/internal/domain/model"
)

// APIError represents a structured error response.
// All error responses from the API use this format for consistency.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes
const (
	ErrCodeNotFound       = "not_found"
	ErrCodeBadRequest     = "bad_request"
	ErrCodeInternalError  = "internal_error"
	ErrCodeValidation     = "validation_error"
	ErrCodeOverAllocation = "over_allocation"
)

// NewAPIError creates a new APIError with the given code and message.
func NewAPIError(code, message string) APIError {
	return APIError{Code: code, Message: message}
}

// FromDomainError maps a domain error to an HTTP status and response
// body. Unknown errors become opaque internal errors.
func FromDomainError(err error) (int, APIError) {
	var validation *model.ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest, NewAPIError(ErrCodeValidation, validation.Error())
	}

	var notFound *model.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, NewAPIError(ErrCodeNotFound, notFound.Error())
	}

	var overAlloc *model.OverAllocationError
	if errors.As(err, &overAlloc) {
		return http.StatusUnprocessableEntity, NewAPIError(ErrCodeOverAllocation, overAlloc.Error())
	}

	return http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, "an internal error occurred")
}
