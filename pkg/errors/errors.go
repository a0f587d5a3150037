package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Rule errors
	ErrPatternInvalid ErrorCode = "PATTERN_INVALID"
	ErrRuleInvalid    ErrorCode = "RULE_INVALID"
	ErrRuleDuplicate  ErrorCode = "RULE_DUPLICATE"
	ErrRuleNotFound   ErrorCode = "RULE_NOT_FOUND"
	ErrLedger         ErrorCode = "LEDGER"

	// Asset and importer errors
	ErrAssetNotFound    ErrorCode = "ASSET_NOT_FOUND"
	ErrImporterNotFound ErrorCode = "IMPORTER_NOT_FOUND"
	ErrImporterMismatch ErrorCode = "IMPORTER_MISMATCH"
	ErrImporterParse    ErrorCode = "IMPORTER_PARSE"
	ErrReferenceMissing ErrorCode = "REFERENCE_MISSING"
	ErrTypeMismatch     ErrorCode = "TYPE_MISMATCH"
	ErrPropertyNotFound ErrorCode = "PROPERTY_NOT_FOUND"
	ErrApplyFailed      ErrorCode = "APPLY_FAILED"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// AuditError represents a structured error with code and details
type AuditError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *AuditError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AuditError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *AuditError) Is(target error) bool {
	var targetErr *AuditError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new AuditError with the given code and message
func New(code ErrorCode, message string) *AuditError {
	return &AuditError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new AuditError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AuditError {
	return &AuditError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an AuditError.
// It returns nil when err is nil.
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return &AuditError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &AuditError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *AuditError) WithDetail(key string, value interface{}) *AuditError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *AuditError) WithDetails(details map[string]interface{}) *AuditError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var auditErr *AuditError
	if errors.As(err, &auditErr) {
		return auditErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an AuditError
func GetErrorCode(err error) ErrorCode {
	var auditErr *AuditError
	if errors.As(err, &auditErr) {
		return auditErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an AuditError
func GetErrorDetails(err error) map[string]interface{} {
	var auditErr *AuditError
	if errors.As(err, &auditErr) {
		return auditErr.Details
	}
	return nil
}

// IsRecoverable reports whether err belongs to the validation-shaped
// family that callers handle locally (empty results, blocked action)
// instead of aborting the current job.
func IsRecoverable(err error) bool {
	switch GetErrorCode(err) {
	case ErrPatternInvalid, ErrRuleInvalid, ErrRuleDuplicate,
		ErrImporterNotFound, ErrImporterMismatch, ErrTypeMismatch,
		ErrPropertyNotFound, ErrApplyFailed, ErrInvalidInput:
		return true
	}
	return false
}
