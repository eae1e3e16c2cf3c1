package errors

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorCode represents application-specific error codes
type ErrorCode string

const (
	// Authentication errors (1xxx)
	ErrCodeUnauthorized       ErrorCode = "E1001"
	ErrCodeInvalidCredentials ErrorCode = "E1002"
	ErrCodeTokenExpired       ErrorCode = "E1003"
	ErrCodeInvalidToken       ErrorCode = "E1004"
	ErrCodeAccessDenied       ErrorCode = "E1005"

	// Validation errors (2xxx)
	ErrCodeValidation    ErrorCode = "E2001"
	ErrCodeInvalidInput  ErrorCode = "E2002"
	ErrCodeMissingField  ErrorCode = "E2003"
	ErrCodeInvalidEmail  ErrorCode = "E2004"
	ErrCodeInvalidAmount ErrorCode = "E2005"

	// Resource errors (3xxx)
	ErrCodeNotFound      ErrorCode = "E3001"
	ErrCodeAlreadyExists ErrorCode = "E3002"
	ErrCodeConflict      ErrorCode = "E3003"

	// Business logic errors (4xxx)
	ErrCodeBusinessRule      ErrorCode = "E4001"
	ErrCodeInsufficientStock ErrorCode = "E4002"
	ErrCodeRecoveryExpired   ErrorCode = "E4003"
	ErrCodeRecoveryInvalid   ErrorCode = "E4004"
	ErrCodeRecoveryUsed      ErrorCode = "E4005"

	// External service errors (5xxx)
	ErrCodeStoreError ErrorCode = "E5001"
	ErrCodeEmailError ErrorCode = "E5002"

	// Internal errors (9xxx)
	ErrCodeInternal ErrorCode = "E9001"
	ErrCodeTimeout  ErrorCode = "E9002"
)

// AppError represents an application error with context
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
	Cause      error                  `json:"-"`
	Stack      string                 `json:"-"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails adds additional details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithField adds a field to the error
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// ToJSON converts error to JSON response format
func (e *AppError) ToJSON() map[string]interface{} {
	result := map[string]interface{}{
		"status":  "error",
		"code":    e.Code,
		"message": e.Message,
	}
	if e.Details != "" {
		result["details"] = e.Details
	}
	if len(e.Fields) > 0 {
		result["fields"] = e.Fields
	}
	return result
}

// ============================================================
// Error constructors
// ============================================================

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: getHTTPStatus(code),
		Stack:      captureStack(2),
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: getHTTPStatus(code),
		Cause:      err,
		Stack:      captureStack(2),
	}
}

// ============================================================
// Predefined error constructors
// ============================================================

func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

func InvalidCredentials() *AppError {
	return New(ErrCodeInvalidCredentials, "incorrect credentials")
}

func InvalidToken() *AppError {
	return New(ErrCodeInvalidToken, "invalid session token")
}

func AccessDenied() *AppError {
	return New(ErrCodeAccessDenied, "access denied")
}

func ValidationError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func MissingField(field string) *AppError {
	return New(ErrCodeMissingField, fmt.Sprintf("%s is required", field)).WithField("field", field)
}

func InvalidEmail() *AppError {
	return New(ErrCodeInvalidEmail, "invalid email address")
}

func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InsufficientStock(productID int) *AppError {
	return New(ErrCodeInsufficientStock, "insufficient stock").WithField("product_id", productID)
}

func StoreError(err error) *AppError {
	return Wrap(err, ErrCodeStoreError, "data store request failed")
}

func EmailError(err error) *AppError {
	return Wrap(err, ErrCodeEmailError, "email delivery failed")
}

func Internal(err error) *AppError {
	return Wrap(err, ErrCodeInternal, "internal error")
}

// getHTTPStatus maps error codes to HTTP status codes
func getHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeUnauthorized, ErrCodeInvalidCredentials, ErrCodeTokenExpired, ErrCodeInvalidToken:
		return http.StatusUnauthorized
	case ErrCodeAccessDenied:
		return http.StatusForbidden
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeMissingField, ErrCodeInvalidEmail, ErrCodeInvalidAmount:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists, ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeBusinessRule, ErrCodeInsufficientStock, ErrCodeRecoveryExpired, ErrCodeRecoveryInvalid, ErrCodeRecoveryUsed:
		return http.StatusUnprocessableEntity
	case ErrCodeStoreError, ErrCodeEmailError:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// captureStack captures a short stack trace for diagnostics
func captureStack(skip int) string {
	var sb strings.Builder
	for i := skip; i < skip+5; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s\n\t%s:%d\n", fn.Name(), file, line))
	}
	return sb.String()
}

// IsCode reports whether err is an AppError with the given code
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			return appErr.Code == code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
