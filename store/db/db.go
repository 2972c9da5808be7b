package db

import (
	"log/slog"

	storeerrors "github.com/hrygo/mindlens/internal/errors"
	"github.com/hrygo/mindlens/internal/profile"
	"github.com/hrygo/mindlens/store"
	"github.com/hrygo/mindlens/store/db/embedded"
	"github.com/hrygo/mindlens/store/db/pgvector"
)

// NewVectorDriver creates the vector search backend selected by the profile.
// The selection happens exactly once here; everything downstream works
// against store.Driver. An unknown selector is a fatal configuration error.
func NewVectorDriver(profile *profile.Profile, logger *slog.Logger) (store.Driver, error) {
	switch profile.VectorStore {
	case "embedded":
		return embedded.NewDB(profile, logger)
	case "pgvector":
		return pgvector.NewDB(profile, logger)
	default:
		return nil, storeerrors.Newf(storeerrors.ErrCodeInvalidConfig,
			"unsupported vector store %q: use 'embedded' or 'pgvector'", profile.VectorStore)
	}
}
