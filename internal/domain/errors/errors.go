package errors

import (
	"errors"
	"fmt"
)

// Error types for the engine
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeAggregation ErrorType = "aggregation"
	ErrorTypeInternal    ErrorType = "internal"
)

// Error codes surfaced to callers
const (
	CodeInvalidScoreInput    = "INVALID_SCORE_INPUT"
	CodeInvalidControlCounts = "INVALID_CONTROL_COUNTS"
	CodeAggregationFailure   = "AGGREGATION_FAILURE"
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeBatchTooLarge        = "BATCH_TOO_LARGE"
	CodeContractViolation    = "CONTRACT_VIOLATION"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"status_code"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// Error constructors
func NewValidationError(code, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		Retryable:  false,
		StatusCode: 400,
	}
}

func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		Retryable:  false,
		StatusCode: 500,
	}
}

// NewInvalidScoreInput reports an impact, likelihood or score outside its closed range.
func NewInvalidScoreInput(field string, value, min, max int) *AppError {
	return NewValidationError(
		CodeInvalidScoreInput,
		fmt.Sprintf("%s must be between %d and %d, got %d", field, min, max, value),
	).WithDetails(map[string]interface{}{
		"field": field,
		"value": value,
		"min":   min,
		"max":   max,
	})
}

// NewInvalidControlCounts reports a control count pair that breaks 0 <= implemented <= total.
func NewInvalidControlCounts(total, implemented int) *AppError {
	return NewValidationError(
		CodeInvalidControlCounts,
		fmt.Sprintf("implemented controls (%d) must be between 0 and total controls (%d)", implemented, total),
	).WithDetails(map[string]interface{}{
		"total_controls":       total,
		"implemented_controls": implemented,
	})
}

// NewAggregationFailure wraps the first validation error hit while summarizing a batch.
func NewAggregationFailure(stage string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeAggregation,
		Code:       CodeAggregationFailure,
		Message:    fmt.Sprintf("%s aggregation aborted", stage),
		Details:    map[string]interface{}{"stage": stage},
		Cause:      cause,
		Retryable:  false,
		StatusCode: 422,
	}
}

// NewBatchTooLarge rejects a request carrying more items than the engine accepts.
func NewBatchTooLarge(size, limit int) *AppError {
	return NewValidationError(
		CodeBatchTooLarge,
		fmt.Sprintf("batch of %d items exceeds the limit of %d", size, limit),
	).WithDetails(map[string]interface{}{
		"size":  size,
		"limit": limit,
	})
}

// NewContractViolation reports a computed response that does not match its published schema.
func NewContractViolation(schema string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       CodeContractViolation,
		Message:    fmt.Sprintf("response does not match schema %s", schema),
		Details:    map[string]interface{}{"schema": schema},
		Cause:      cause,
		Retryable:  false,
		StatusCode: 500,
	}
}

// Wrap wraps an error with a message using fmt.Errorf with %w
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsType checks if an error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// HasCode reports whether any AppError in the chain carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}

// GetStatusCode extracts HTTP status code from error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return 500
}
