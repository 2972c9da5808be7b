package db

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storeerrors "github.com/hrygo/mindlens/internal/errors"
	"github.com/hrygo/mindlens/internal/profile"
)

func TestNewVectorDriverEmbedded(t *testing.T) {
	p := &profile.Profile{Data: t.TempDir(), VectorStore: profile.VectorStoreEmbedded}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	driver, err := NewVectorDriver(p, logger)
	require.NoError(t, err)
	require.NotNil(t, driver)
	assert.NoError(t, driver.Close())
}

func TestNewVectorDriverUnknownSelector(t *testing.T) {
	p := &profile.Profile{Data: t.TempDir(), VectorStore: "chroma"}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	_, err := NewVectorDriver(p, logger)
	require.Error(t, err)
	assert.Equal(t, storeerrors.ErrCodeInvalidConfig, storeerrors.Code(err))
}
