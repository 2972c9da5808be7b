package store

import (
	"context"
	"log/slog"

	"github.com/hrygo/mindlens/internal/observability"
	"github.com/hrygo/mindlens/internal/profile"
)

// Store is the single entry point for diary persistence and retrieval. It
// hides the backend choice behind Driver and unconditionally mirrors every
// upsert into the append-only journal, so the journal is always a
// superset-or-equal history of whichever backend is active.
type Store struct {
	profile *profile.Profile
	driver  Driver
	journal *Journal
	logger  *slog.Logger
}

// New creates a new instance of Store.
func New(driver Driver, journal *Journal, profile *profile.Profile, logger *slog.Logger) *Store {
	return &Store{
		profile: profile,
		driver:  driver,
		journal: journal,
		logger:  logger,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// Upsert writes the records to the active backend and appends them to the
// journal. The journal append happens after the backend write succeeds;
// a backend failure surfaces to the caller with nothing half-written.
func (s *Store) Upsert(ctx context.Context, records []*Record) error {
	if len(records) == 0 {
		return nil
	}
	op := observability.NewOpContext(s.logger, "upsert", s.profile.VectorStore)

	if err := s.driver.Upsert(ctx, records); err != nil {
		op.Error("backend upsert failed", err, slog.Int(observability.LogFieldCount, len(records)))
		return err
	}
	if err := s.journal.Append(records); err != nil {
		op.Error("journal append failed", err, slog.Int(observability.LogFieldCount, len(records)))
		return err
	}
	op.Debug("records stored",
		slog.Int(observability.LogFieldCount, len(records)),
		slog.Int64(observability.LogFieldDuration, op.DurationMs()))
	return nil
}

// Query returns up to k hits ranked by descending similarity. Backend
// failures degrade to an empty result; the cause is logged, never propagated
// past this boundary.
func (s *Store) Query(ctx context.Context, vector []float32, k int, filter *QueryFilter) []*Hit {
	op := observability.NewOpContext(s.logger, "query", s.profile.VectorStore)

	hits, err := s.driver.Query(ctx, vector, k, filter)
	if err != nil {
		op.Error("backend query failed", err)
		return nil
	}
	op.Debug("query served",
		slog.Int(observability.LogFieldCount, len(hits)),
		slog.Int64(observability.LogFieldDuration, op.DurationMs()))
	return hits
}

// ListEntries returns the full journal history, oldest first.
func (s *Store) ListEntries() ([]*Record, error) {
	return s.journal.ReadAll()
}

// Reload asks the active backend to re-read its persisted state.
func (s *Store) Reload() error {
	return s.driver.Reload()
}
