package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Catalog errors
	ErrCodeFetchFailed ErrorCode = "FETCH_FAILED"
	ErrCodeInitPending ErrorCode = "INIT_PENDING"

	// Collection errors
	ErrCodeSoundNotFound ErrorCode = "SOUND_NOT_FOUND"

	// Storage errors
	ErrCodeStorageFailed      ErrorCode = "STORAGE_FAILED"
	ErrCodeStorageUnsupported ErrorCode = "STORAGE_UNSUPPORTED"

	// Daemon errors
	ErrCodeDaemonUnavailable ErrorCode = "DAEMON_UNAVAILABLE"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// KakapoError represents a structured error with context
type KakapoError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *KakapoError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *KakapoError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *KakapoError) WithDetail(key string, value interface{}) *KakapoError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *KakapoError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new KakapoError
func New(code ErrorCode, message string) *KakapoError {
	return &KakapoError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a KakapoError
func Wrap(err error, code ErrorCode, message string) *KakapoError {
	return &KakapoError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific KakapoError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	kerr, ok := err.(*KakapoError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return kerr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	kerr, ok := err.(*KakapoError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return kerr.Code
}

// AsKakapo returns the first KakapoError in err's chain.
func AsKakapo(err error) (*KakapoError, bool) {
	for err != nil {
		if kerr, ok := err.(*KakapoError); ok {
			return kerr, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}
