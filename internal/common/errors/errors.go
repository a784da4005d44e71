// Package errors provides standardized error handling shared by the HTTP API
// and the workflow job workers.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserNotVerified     ErrorCode = "USER_NOT_VERIFIED"
	ErrCodeUserAlreadyVerified ErrorCode = "USER_ALREADY_VERIFIED"

	ErrCodeOTPInvalid        ErrorCode = "OTP_INVALID"
	ErrCodeOTPExpired        ErrorCode = "OTP_EXPIRED"
	ErrCodeOTPDeliveryFailed ErrorCode = "OTP_DELIVERY_FAILED"

	ErrCodeResultsNotFound ErrorCode = "RESULTS_NOT_FOUND"

	ErrCodeStorageFailed ErrorCode = "STORAGE_FAILED"
	ErrCodeSearchFailed  ErrorCode = "SEARCH_FAILED"
	ErrCodeRenderFailed  ErrorCode = "RENDER_FAILED"

	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
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

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the workflow engine.
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

// ToErrorVariables returns a map suitable for job fail/throw variables.
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

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError creates a non-retryable request validation error.
func NewValidationError(message string, details ...string) *StandardError {
	err := newError(ErrCodeValidationFailed, message, strings.Join(details, "; "), false)
	if len(details) > 0 {
		err.WithMetadata("errors", details)
	}
	return err
}

func NewUserNotFoundError(userID string) *StandardError {
	return newError(ErrCodeUserNotFound, "User not found", fmt.Sprintf("userId: %s", userID), false)
}

// NewUserNotVerifiedError is returned when an unknown or unverified user
// tries to submit a test.
func NewUserNotVerifiedError(userID string) *StandardError {
	return newError(ErrCodeUserNotVerified, "User not found or not verified", fmt.Sprintf("userId: %s", userID), false)
}

func NewUserAlreadyVerifiedError(userID string) *StandardError {
	return newError(ErrCodeUserAlreadyVerified, "User already verified", fmt.Sprintf("userId: %s", userID), false)
}

func NewOTPInvalidError() *StandardError {
	return newError(ErrCodeOTPInvalid, "Invalid OTP", "", false)
}

func NewOTPExpiredError() *StandardError {
	return newError(ErrCodeOTPExpired, "OTP expired", "", false)
}

// NewOTPDeliveryFailedError creates a retryable delivery error.
func NewOTPDeliveryFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeOTPDeliveryFailed, "Failed to deliver OTP",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

func NewResultsNotFoundError(userID string) *StandardError {
	return newError(ErrCodeResultsNotFound, "Test results not found", fmt.Sprintf("userId: %s", userID), false)
}

// NewStorageFailedError creates a retryable persistence error.
func NewStorageFailedError(op string, err error) *StandardError {
	return newError(ErrCodeStorageFailed, "Storage operation failed",
		fmt.Sprintf("operation: %s, error: %s", op, err.Error()), true)
}

// NewSearchFailedError creates a retryable search index error.
func NewSearchFailedError(op string, err error) *StandardError {
	return newError(ErrCodeSearchFailed, "Search operation failed",
		fmt.Sprintf("operation: %s, error: %s", op, err.Error()), true)
}

func NewRenderFailedError(format string, err error) *StandardError {
	return newError(ErrCodeRenderFailed, fmt.Sprintf("Failed to generate %s", format), err.Error(), false)
}

func NewServiceUnavailableError(service string) *StandardError {
	return newError(ErrCodeServiceUnavailable, fmt.Sprintf("%s is not enabled", service), "", false)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidationFailed:    "VALIDATION_FAILED",
	ErrCodeUserNotFound:        "USER_NOT_FOUND",
	ErrCodeUserNotVerified:     "USER_NOT_VERIFIED",
	ErrCodeUserAlreadyVerified: "USER_ALREADY_VERIFIED",
	ErrCodeOTPInvalid:          "OTP_INVALID",
	ErrCodeOTPExpired:          "OTP_EXPIRED",
	ErrCodeOTPDeliveryFailed:   "OTP_DELIVERY_FAILED",
	ErrCodeResultsNotFound:     "RESULTS_NOT_FOUND",
	ErrCodeStorageFailed:       "STORAGE_FAILED",
	ErrCodeSearchFailed:        "SEARCH_FAILED",
	ErrCodeRenderFailed:        "RENDER_FAILED",
	ErrCodeServiceUnavailable:  "SERVICE_UNAVAILABLE",
	ErrCodeInternal:            "INTERNAL_ERROR",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeStorageFailed,
		ErrCodeSearchFailed,
		ErrCodeOTPDeliveryFailed:
		return 3
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
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

// HTTPStatus maps an error code onto the status the API responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed,
		ErrCodeUserAlreadyVerified,
		ErrCodeOTPInvalid,
		ErrCodeOTPExpired:
		return http.StatusBadRequest
	case ErrCodeUserNotVerified:
		return http.StatusUnauthorized
	case ErrCodeUserNotFound, ErrCodeResultsNotFound:
		return http.StatusNotFound
	case ErrCodeOTPDeliveryFailed:
		return http.StatusBadGateway
	case ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Normalize ensures we always have a StandardError. Wrapped StandardErrors
// are unwrapped; anything else becomes INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "USER"):
		return "USER"
	case strings.HasPrefix(codeStr, "OTP"):
		return "OTP"
	case strings.Contains(codeStr, "STORAGE") || strings.Contains(codeStr, "RESULTS"):
		return "STORAGE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "RENDER"):
		return "RENDER"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
