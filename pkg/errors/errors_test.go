package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("public_key", "", "cannot be blank")
	assert.Contains(t, err.Error(), "public_key")
	assert.True(t, IsValidationError(err))
	assert.True(t, IsValidationError(fmt.Errorf("wrapped: %w", err)))
}

func TestAPIError_StatusClassification(t *testing.T) {
	assert.True(t, IsRateLimited(NewAPIError("letsmesh", 429, "slow down")))
	assert.True(t, IsProviderUnavailable(NewAPIError("meshmapper", 502, "bad gateway")))
	assert.True(t, IsNotFound(NewAPIError("meshmapper", 404, "not found")))
	assert.False(t, IsProviderUnavailable(NewAPIError("meshmapper", 404, "not found")))
	assert.False(t, IsRateLimited(NewAPIError("meshmapper", 500, "boom")))
	assert.False(t, IsNotFound(NewAPIError("meshmapper", 500, "boom")))
}

func TestAPIError_ContextClassification(t *testing.T) {
	timedOut := &APIError{Provider: "letsmesh", Message: "request failed", Err: context.DeadlineExceeded}
	assert.True(t, IsTimeout(timedOut))
	assert.False(t, IsCanceled(timedOut))

	canceled := &APIError{Provider: "meshmapper", Message: "request failed", Err: fmt.Errorf("do: %w", context.Canceled)}
	assert.True(t, IsCanceled(canceled))
	assert.False(t, IsTimeout(canceled))

	plain := NewAPIError("meshmapper", 0, "connection refused")
	assert.False(t, IsTimeout(plain))
	assert.False(t, IsCanceled(plain))
}

func TestParseError_Unwrap(t *testing.T) {
	cause := New("unexpected end of JSON input")
	err := WrapParse("json", "repeaters.json", cause)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "json", parseErr.Format)
	assert.ErrorIs(t, err, cause)
}

func TestIOError(t *testing.T) {
	cause := New("permission denied")
	err := WrapIO("write", "/data/repeaters.json", cause)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "write", ioErr.Operation)
	assert.Contains(t, err.Error(), "/data/repeaters.json")
	assert.ErrorIs(t, err, cause)
}

func TestSyncError(t *testing.T) {
	cause := NewAPIError("letsmesh", 503, "down")
	err := NewSyncError("letsmesh", "companions", cause)

	assert.Contains(t, err.Error(), "letsmesh")
	assert.Contains(t, err.Error(), "companions")
	assert.True(t, IsProviderUnavailable(err))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, WrapValidation("field", nil))
	assert.NoError(t, WrapIO("read", "x", nil))
	assert.NoError(t, WrapParse("json", "x", nil))
	assert.NoError(t, WrapAPI("p", 200, nil))
}
