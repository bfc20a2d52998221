package utils

import "fmt"

// Exit codes
const (
	ExitSuccess = 0
	// Auth errors (10-19)
	ExitAuthRequired = 10
	ExitAuthExpired  = 11
	ExitAuthInvalid  = 12
	// Sync errors (20-29)
	ExitResolutionFailed = 20
	ExitTransferFailed   = 21
	ExitPartialFailure   = 22
	// Network errors (30-39)
	ExitNetworkError = 30
	ExitTimeout      = 31
	ExitRateLimited  = 32
	// Validation errors (40-49)
	ExitInvalidArgument = 40
	ExitInvalidConfig   = 41
	ExitUnknownJob      = 42
	// Unknown
	ExitUnknown = 99
)

// Error codes (tool-owned, stable)
const (
	ErrCodeAuthRequired     = "AUTH_REQUIRED"
	ErrCodeAuthExpired      = "AUTH_EXPIRED"
	ErrCodeAuthInvalid      = "AUTH_INVALID"
	ErrCodeResolutionFailed = "REMOTE_RESOLUTION_FAILED"
	ErrCodeListingFailed    = "REMOTE_LISTING_FAILED"
	ErrCodeTransferFailed   = "TRANSFER_FAILED"
	ErrCodeStateCorrupt     = "STATE_CORRUPT"
	ErrCodePartialFailure   = "PARTIAL_FAILURE"
	ErrCodeNetworkError     = "NETWORK_ERROR"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeInvalidArgument  = "INVALID_ARGUMENT"
	ErrCodeInvalidConfig    = "INVALID_CONFIG"
	ErrCodeUnknownJob       = "UNKNOWN_JOB"
	ErrCodeCancelled        = "CANCELLED"
	ErrCodeUnknown          = "UNKNOWN"
)

// AppError carries a stable error code plus human-readable detail
type AppError struct {
	Code    string
	Message string
	Context map[string]interface{}
	cause   error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// NewAppError creates an AppError with the given code and message
func NewAppError(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// WithCause attaches the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// WithContext attaches a key/value detail to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetExitCode returns the exit code for an error code
func GetExitCode(errorCode string) int {
	mapping := map[string]int{
		ErrCodeAuthRequired:     ExitAuthRequired,
		ErrCodeAuthExpired:      ExitAuthExpired,
		ErrCodeAuthInvalid:      ExitAuthInvalid,
		ErrCodeResolutionFailed: ExitResolutionFailed,
		ErrCodeListingFailed:    ExitPartialFailure,
		ErrCodeTransferFailed:   ExitTransferFailed,
		ErrCodePartialFailure:   ExitPartialFailure,
		ErrCodeNetworkError:     ExitNetworkError,
		ErrCodeTimeout:          ExitTimeout,
		ErrCodeRateLimited:      ExitRateLimited,
		ErrCodeInvalidArgument:  ExitInvalidArgument,
		ErrCodeInvalidConfig:    ExitInvalidConfig,
		ErrCodeUnknownJob:       ExitUnknownJob,
	}
	if code, ok := mapping[errorCode]; ok {
		return code
	}
	return ExitUnknown
}
