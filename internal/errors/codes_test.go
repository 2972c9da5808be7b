package errors

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapAndCode(t *testing.T) {
	cause := pkgerrors.New("disk full")
	err := Wrap(cause, ErrCodeStorageUnavailable, "failed to persist index")

	assert.Equal(t, ErrCodeStorageUnavailable, Code(err))
	assert.Contains(t, err.Error(), "failed to persist index")
	assert.Contains(t, err.Error(), "disk full")
	assert.ErrorIs(t, err, cause)
}

func TestCodeOnForeignError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), Code(pkgerrors.New("plain")))
	assert.Equal(t, ErrorCode(""), Code(nil))
}

func TestCodeWalksWrapChain(t *testing.T) {
	inner := New(ErrCodeConsistency, "index and metadata disagree")
	outer := pkgerrors.WithMessage(inner, "reload failed")
	assert.Equal(t, ErrCodeConsistency, Code(outer))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(New(ErrCodeInvalidConfig, "bad backend")))
	assert.False(t, IsFatal(New(ErrCodeStorageUnavailable, "disk full")))
	assert.False(t, IsFatal(nil))
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCodeDimensionMismatch, "got %d, want %d", 8, 4)
	require.Error(t, err)
	assert.Equal(t, ErrCodeDimensionMismatch, Code(err))
	assert.Contains(t, err.Error(), "got 8, want 4")
}
