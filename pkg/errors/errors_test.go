package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	err := NewError(ErrCodeChunkChecksum, "stored checksum does not match")

	require.NotNil(t, err)
	assert.Equal(t, ErrCodeChunkChecksum, err.Code)
	assert.Equal(t, CategoryIntegrity, err.Category)
	assert.Equal(t, "stored checksum does not match", err.Message)
	assert.False(t, err.Timestamp.IsZero())
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *CacheError
		expected string
	}{
		{
			name:     "bare error",
			err:      NewError(ErrCodeStoreIO, "write failed"),
			expected: "STORE_IO: write failed",
		},
		{
			name:     "with component",
			err:      NewError(ErrCodeStoreIO, "write failed").WithComponent("store"),
			expected: "[store] STORE_IO: write failed",
		},
		{
			name:     "with component and operation",
			err:      NewError(ErrCodeStoreIO, "write failed").WithComponent("store").WithOperation("encode"),
			expected: "[store:encode] STORE_IO: write failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestGetCategory(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		category ErrorCategory
	}{
		{ErrCodeInvalidConfig, CategoryConfiguration},
		{ErrCodeConfigLoad, CategoryConfiguration},
		{ErrCodeCacheRoot, CategoryLocation},
		{ErrCodePathInvalid, CategoryLocation},
		{ErrCodeSignatureMismatch, CategoryIntegrity},
		{ErrCodeChunkChecksum, CategoryIntegrity},
		{ErrCodeProvenanceStale, CategoryIntegrity},
		{ErrCodeSizeUnsupported, CategoryRejection},
		{ErrCodePathUnavailable, CategoryRejection},
		{ErrCodeDecodeFailed, CategoryCodec},
		{ErrCodeEncodeFailed, CategoryCodec},
		{ErrCodeStoreIO, CategoryStorage},
		{ErrCodeInternalError, CategoryInternal},
		{ErrorCode("SOMETHING_ELSE"), CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.category, GetCategory(tt.code))
		})
	}
}

func TestIsRejection(t *testing.T) {
	assert.True(t, NewError(ErrCodeSizeUnsupported, "requested size above 256").IsRejection())
	assert.True(t, NewError(ErrCodePathUnavailable, "in-memory image").IsRejection())
	assert.False(t, NewError(ErrCodeStoreIO, "write failed").IsRejection())
	assert.False(t, NewError(ErrCodeChunkChecksum, "bad checksum").IsRejection())
}

func TestUnwrapAndIs(t *testing.T) {
	cause := fmt.Errorf("underlying I/O failure")
	err := NewError(ErrCodeStoreIO, "write failed").WithCause(cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, NewError(ErrCodeStoreIO, "different message")))
	assert.False(t, errors.Is(err, NewError(ErrCodeEncodeFailed, "write failed")))
}

func TestWithContext(t *testing.T) {
	err := NewError(ErrCodeProvenanceStale, "mtime changed").
		WithContext("path", "/tmp/cache/normal/abc.png").
		WithContext("expected", "1700000000")

	assert.Equal(t, "/tmp/cache/normal/abc.png", err.Context["path"])
	assert.Equal(t, "1700000000", err.Context["expected"])
	assert.Contains(t, err.String(), "PROVENANCE_STALE")
	assert.Contains(t, err.String(), `path="/tmp/cache/normal/abc.png"`)
}
