// Package errors maps hotel search failures onto Zeebe job outcomes.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"hotel-search/internal/hotel"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidation          ErrorCode = "VALIDATION_ERROR"
	ErrCodeInputParsingFailed  ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeServiceUnavailable  ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeSearchTimeout       ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeHotelNotFound       ErrorCode = "HOTEL_NOT_FOUND"
	ErrCodeDatabaseQueryFailed ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError creates a non-retryable input validation error.
func NewValidationError(details string) *StandardError {
	return newError(ErrCodeValidation, "Input validation failed", details, false)
}

// NewInputParsingError is returned when job variables cannot be decoded.
func NewInputParsingError(err error) *StandardError {
	return newError(ErrCodeInputParsingFailed, "Failed to parse job variables", err.Error(), false)
}

// NewServiceUnavailableError creates a retryable index service error.
func NewServiceUnavailableError(err error) *StandardError {
	return newError(ErrCodeServiceUnavailable, "Search index unavailable", err.Error(), true)
}

func NewSearchTimeoutError(operation string) *StandardError {
	return newError(ErrCodeSearchTimeout, "Search request timed out", fmt.Sprintf("operation: %s", operation), true)
}

func NewHotelNotFoundError(err error) *StandardError {
	return newError(ErrCodeHotelNotFound, "Hotel not found", err.Error(), false)
}

func NewDatabaseQueryFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseQueryFailed, "Hotel store query failed", err.Error(), true)
}

// FromError classifies an error returned by the hotel core or repository.
// StandardErrors pass through untouched.
func FromError(operation string, err error) *StandardError {
	var stdErr *StandardError
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &stdErr):
		return stdErr
	case stderrors.Is(err, context.DeadlineExceeded):
		return NewSearchTimeoutError(operation)
	case stderrors.Is(err, hotel.ErrValidation):
		return NewValidationError(err.Error())
	case stderrors.Is(err, hotel.ErrHotelNotFound):
		return NewHotelNotFoundError(err)
	case stderrors.Is(err, hotel.ErrServiceUnavailable):
		return NewServiceUnavailableError(err)
	case stderrors.Is(err, hotel.ErrStoreUnavailable):
		return NewDatabaseQueryFailedError(err)
	default:
		return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
	}
}

// GetRetryCount returns the retry budget for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeServiceUnavailable, ErrCodeDatabaseQueryFailed:
		return 3
	case ErrCodeSearchTimeout:
		return 2
	default:
		return 0 // business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PARSING"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "SERVICE"):
		return "SEARCH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "NOT_FOUND"):
		return "DATABASE"
	default:
		return "OTHER"
	}
}
