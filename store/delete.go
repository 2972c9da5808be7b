package store

import (
	"context"
	"log/slog"

	"github.com/hrygo/mindlens/internal/observability"
)

// DeleteEntry removes one record by id from every durable artifact and
// restores cross-file consistency:
//
//  1. rewrite the journal without the target id (temp file + rename),
//  2. ask the backend to drop the id from its own artifacts — the embedded
//     backend filters its metadata log and rebuilds the index from the
//     surviving vectors,
//  3. reload the in-memory state so queries in this process see the result.
//
// Each artifact is replaced atomically, but there is no transaction spanning
// all of them: a crash between steps leaves the journal ahead of the index,
// which the next delete or rebuild converges. Must not run concurrently with
// Upsert — a rebuild reads a metadata snapshot and would silently drop
// vectors added mid-flight.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	op := observability.NewOpContext(s.logger, "delete", s.profile.VectorStore)

	records, err := s.journal.ReadAll()
	if err != nil {
		op.Error("journal read failed", err, slog.String(observability.LogFieldDocID, id))
		return err
	}
	surviving := make([]*Record, 0, len(records))
	for _, r := range records {
		if r.ID != id {
			surviving = append(surviving, r)
		}
	}
	if err := s.journal.Rewrite(surviving); err != nil {
		op.Error("journal rewrite failed", err, slog.String(observability.LogFieldDocID, id))
		return err
	}

	if err := s.driver.Delete(ctx, id); err != nil {
		op.Error("backend delete failed", err, slog.String(observability.LogFieldDocID, id))
		return err
	}

	if err := s.driver.Reload(); err != nil {
		op.Error("backend reload failed", err, slog.String(observability.LogFieldDocID, id))
		return err
	}

	op.Info("entry deleted",
		slog.String(observability.LogFieldDocID, id),
		slog.Int(observability.LogFieldCount, len(surviving)),
		slog.Int64(observability.LogFieldDuration, op.DurationMs()))
	return nil
}
