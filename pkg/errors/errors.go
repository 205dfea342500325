// Package errors provides the structured error system for the thumbnail
// cache, with error codes, categories, and context.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents a structured error code for cache operations.
type ErrorCode string

// Error code constants organized by category.
const (
	// Configuration errors
	ErrCodeInvalidConfig    ErrorCode = "INVALID_CONFIG"
	ErrCodeConfigLoad       ErrorCode = "CONFIG_LOAD"
	ErrCodeConfigSave       ErrorCode = "CONFIG_SAVE"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Cache location errors
	ErrCodeCacheRoot   ErrorCode = "CACHE_ROOT"
	ErrCodePathInvalid ErrorCode = "PATH_INVALID"

	// Integrity faults on the read path
	ErrCodeSignatureMismatch ErrorCode = "SIGNATURE_MISMATCH"
	ErrCodeChunkChecksum     ErrorCode = "CHUNK_CHECKSUM"
	ErrCodeProvenanceStale   ErrorCode = "PROVENANCE_STALE"
	ErrCodeTruncatedStream   ErrorCode = "TRUNCATED_STREAM"

	// Not-applicable conditions, resolved as ordinary misses
	ErrCodeSizeUnsupported ErrorCode = "SIZE_UNSUPPORTED"
	ErrCodePathUnavailable ErrorCode = "PATH_UNAVAILABLE"

	// Codec and store faults
	ErrCodeDecodeFailed ErrorCode = "DECODE_FAILED"
	ErrCodeEncodeFailed ErrorCode = "ENCODE_FAILED"
	ErrCodeScaleFailed  ErrorCode = "SCALE_FAILED"
	ErrCodeStoreIO      ErrorCode = "STORE_IO"

	// Internal errors
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorCategory represents the general category of an error.
type ErrorCategory string

const (
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryLocation      ErrorCategory = "location"
	CategoryIntegrity     ErrorCategory = "integrity"
	CategoryRejection     ErrorCategory = "rejection"
	CategoryCodec         ErrorCategory = "codec"
	CategoryStorage       ErrorCategory = "storage"
	CategoryInternal      ErrorCategory = "internal"
)

// CacheError represents a structured error with context and metadata.
// Errors of the rejection category describe not-applicable conditions that
// resolve as ordinary cache misses; they exist so the internal read path
// can distinguish a miss from a genuine fault before the result collapses
// to a boolean at the public boundary.
type CacheError struct {
	Code      ErrorCode         `json:"code"`
	Category  ErrorCategory     `json:"category"`
	Message   string            `json:"message"`
	Context   map[string]string `json:"context,omitempty"`
	Cause     error             `json:"-"`
	Timestamp time.Time         `json:"timestamp"`
	Component string            `json:"component,omitempty"`
	Operation string            `json:"operation,omitempty"`
}

// Error implements the error interface.
func (e *CacheError) Error() string {
	if e.Component != "" {
		if e.Operation != "" {
			return fmt.Sprintf("[%s:%s] %s: %s", e.Component, e.Operation, e.Code, e.Message)
		}
		return fmt.Sprintf("[%s] %s: %s", e.Component, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error wrapping compatibility.
func (e *CacheError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error by code.
func (e *CacheError) Is(target error) bool {
	if cacheErr, ok := target.(*CacheError); ok {
		return e.Code == cacheErr.Code
	}
	return false
}

// String returns a detailed string representation for logging.
func (e *CacheError) String() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Code=%s", e.Code))
	parts = append(parts, fmt.Sprintf("Category=%s", e.Category))
	parts = append(parts, fmt.Sprintf("Message=%q", e.Message))

	if e.Component != "" {
		parts = append(parts, fmt.Sprintf("Component=%s", e.Component))
	}
	if e.Operation != "" {
		parts = append(parts, fmt.Sprintf("Operation=%s", e.Operation))
	}
	for k, v := range e.Context {
		parts = append(parts, fmt.Sprintf("%s=%q", k, v))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("Cause=%q", e.Cause.Error()))
	}

	return fmt.Sprintf("CacheError{%s}", strings.Join(parts, ", "))
}

// IsRejection reports whether the error describes a not-applicable
// condition rather than a fault.
func (e *CacheError) IsRejection() bool {
	return e.Category == CategoryRejection
}

// NewError creates a new cache error with its category derived from the code.
func NewError(code ErrorCode, message string) *CacheError {
	return &CacheError{
		Code:      code,
		Category:  GetCategory(code),
		Message:   message,
		Timestamp: time.Now(),
	}
}

// GetCategory determines the category based on the error code.
func GetCategory(code ErrorCode) ErrorCategory {
	switch code {
	case ErrCodeInvalidConfig, ErrCodeConfigLoad, ErrCodeConfigSave, ErrCodeConfigValidation:
		return CategoryConfiguration
	case ErrCodeCacheRoot, ErrCodePathInvalid:
		return CategoryLocation
	case ErrCodeSignatureMismatch, ErrCodeChunkChecksum, ErrCodeProvenanceStale, ErrCodeTruncatedStream:
		return CategoryIntegrity
	case ErrCodeSizeUnsupported, ErrCodePathUnavailable:
		return CategoryRejection
	case ErrCodeDecodeFailed, ErrCodeEncodeFailed, ErrCodeScaleFailed:
		return CategoryCodec
	case ErrCodeStoreIO:
		return CategoryStorage
	default:
		return CategoryInternal
	}
}

// WithContext adds contextual information to an error.
func (e *CacheError) WithContext(key, value string) *CacheError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithComponent sets the component for an error.
func (e *CacheError) WithComponent(component string) *CacheError {
	e.Component = component
	return e
}

// WithOperation sets the operation for an error.
func (e *CacheError) WithOperation(operation string) *CacheError {
	e.Operation = operation
	return e
}

// WithCause sets the underlying cause.
func (e *CacheError) WithCause(cause error) *CacheError {
	e.Cause = cause
	return e
}
