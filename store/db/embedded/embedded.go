// Package embedded implements the in-process vector search backend: an exact
// inner-product flat index persisted next to a jsonl metadata shadow log. The
// n-th metadata line corresponds to the n-th vector in add order; the delete
// procedure keeps that alignment by rebuilding the index from the surviving
// metadata.
package embedded

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	storeerrors "github.com/hrygo/mindlens/internal/errors"
	"github.com/hrygo/mindlens/internal/observability"
	"github.com/hrygo/mindlens/internal/profile"
	"github.com/hrygo/mindlens/store"
)

// On-disk artifacts under the data directory. Names are kept from the
// original MindLens data layout so existing data directories keep working.
const (
	IndexFile = "faiss_index.bin"
	MetaFile  = "faiss_meta.jsonl"
)

// overfetchFactor is the multiplier applied to the requested result count
// before client-side filtering. Filtering discards candidates, so the index
// is asked for more than k; the factor is fixed, so a very selective filter
// can still return fewer than k matches even when more exist deeper in the
// ranked list.
const overfetchFactor = 10

// DB is the embedded vector search backend.
type DB struct {
	mu        sync.RWMutex
	indexPath string
	metaPath  string
	logger    *slog.Logger

	index *FlatIndex
	meta  []*store.Record
	// degraded is set when the index and metadata log disagree on disk; the
	// backend then serves empty results and the next upsert starts over.
	degraded bool
}

// NewDB opens the embedded backend under the profile's data directory.
// Absent files mean an empty store; inconsistent files degrade to empty with
// a warning instead of failing construction.
func NewDB(profile *profile.Profile, logger *slog.Logger) (store.Driver, error) {
	d := &DB{
		indexPath: filepath.Join(profile.Data, IndexFile),
		metaPath:  filepath.Join(profile.Data, MetaFile),
		logger:    logger,
	}
	d.load()
	return d, nil
}

// load reads both artifacts from disk and checks their alignment. Callers
// hold the write lock or have exclusive access.
func (d *DB) load() {
	d.index = nil
	d.meta = nil
	d.degraded = false

	index, err := LoadFlatIndex(d.indexPath)
	if err != nil {
		d.logger.Warn("embedded index unreadable, treating store as empty",
			slog.String(observability.LogFieldPath, d.indexPath),
			slog.String("error", err.Error()))
		d.degraded = true
		return
	}
	meta, err := store.ReadRecordLog(d.metaPath, d.logger)
	if err != nil {
		d.logger.Warn("embedded metadata log unreadable, treating store as empty",
			slog.String(observability.LogFieldPath, d.metaPath),
			slog.String("error", err.Error()))
		d.degraded = true
		return
	}

	switch {
	case index == nil && len(meta) == 0:
		// Empty store.
	case index == nil:
		d.logger.Warn("metadata log present without index, treating store as empty",
			slog.String(observability.LogFieldPath, d.metaPath),
			slog.Int(observability.LogFieldCount, len(meta)))
		d.degraded = true
	case index.Len() != len(meta):
		d.logger.Warn("index and metadata log lengths disagree, treating store as empty",
			slog.Int("index_len", index.Len()),
			slog.Int("meta_len", len(meta)))
		d.degraded = true
	default:
		d.index = index
		d.meta = meta
	}
}

// expectedDim returns the dimensionality every inserted embedding must have,
// or 0 when the next insert fixes it.
func (d *DB) expectedDim() int {
	if d.index != nil && d.index.Len() > 0 {
		return d.index.Dim()
	}
	return 0
}

// validateDimensions rejects the whole batch before any write when an
// embedding's length does not match the established dimensionality.
func validateDimensions(records []*store.Record, expected int) error {
	for _, r := range records {
		if len(r.Embedding) == 0 {
			return storeerrors.Newf(storeerrors.ErrCodeDimensionMismatch, "record %s has no embedding", r.ID)
		}
		if expected == 0 {
			expected = len(r.Embedding)
			continue
		}
		if len(r.Embedding) != expected {
			return storeerrors.Newf(storeerrors.ErrCodeDimensionMismatch,
				"record %s embedding dimension %d does not match established dimension %d",
				r.ID, len(r.Embedding), expected)
		}
	}
	return nil
}

// Upsert appends records to the index and metadata log and persists the
// index before returning. Despite the name there is no overwrite by id:
// re-inserting an existing id adds a duplicate, so id uniqueness is the
// caller's contract.
func (d *DB) Upsert(_ context.Context, records []*store.Record) error {
	if len(records) == 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := validateDimensions(records, d.expectedDim()); err != nil {
		return err
	}

	if d.degraded {
		// Stale artifacts from an inconsistent state would misalign any
		// append, so start both files over from this batch.
		d.logger.Warn("resetting inconsistent embedded store on write")
		return d.rebuild(records)
	}

	if d.index == nil {
		d.index = NewFlatIndex(len(records[0].Embedding))
	}
	for _, r := range records {
		if err := d.index.Add(r.Embedding); err != nil {
			d.load()
			return storeerrors.Wrap(err, storeerrors.ErrCodeStorageUnavailable, "failed to add vector")
		}
	}
	if err := store.AppendRecordLog(d.metaPath, records); err != nil {
		d.load()
		return err
	}
	if err := d.index.Save(d.indexPath); err != nil {
		d.load()
		return storeerrors.Wrap(err, storeerrors.ErrCodeStorageUnavailable, "failed to persist index")
	}
	d.meta = append(d.meta, records...)
	return nil
}

// Query ranks by descending inner product, overfetches to survive
// client-side filtering, and trims to k.
func (d *DB) Query(_ context.Context, vector []float32, k int, filter *store.QueryFilter) ([]*store.Hit, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.index == nil || d.index.Len() == 0 || k <= 0 {
		return nil, nil
	}
	if d.index.Len() != len(d.meta) {
		// Never serve mismatched (vector, metadata) pairs.
		d.logger.Warn("index and metadata log lengths disagree, serving no results",
			slog.Int("index_len", d.index.Len()),
			slog.Int("meta_len", len(d.meta)))
		return nil, nil
	}

	candidates, err := d.index.Search(vector, k*overfetchFactor)
	if err != nil {
		return nil, storeerrors.Wrap(err, storeerrors.ErrCodeDimensionMismatch, "query vector rejected")
	}

	hits := make([]*store.Hit, 0, k)
	for _, c := range candidates {
		r := d.meta[c.Ordinal]
		if !filter.Matches(r) {
			continue
		}
		hits = append(hits, &store.Hit{Record: r, Score: c.Score})
		if len(hits) >= k {
			break
		}
	}
	return hits, nil
}

// Delete filters the target id out of the metadata log and rebuilds the
// index from the surviving vectors in compacted order. Both files are
// replaced atomically; when zero vectors survive the index file is removed
// rather than persisting an empty index.
func (d *DB) Delete(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	meta, err := store.ReadRecordLog(d.metaPath, d.logger)
	if err != nil {
		return err
	}
	surviving := make([]*store.Record, 0, len(meta))
	for _, r := range meta {
		if r.ID != id {
			surviving = append(surviving, r)
		}
	}
	return d.rebuild(surviving)
}

// rebuild rewrites the metadata log and constructs a brand-new index holding
// exactly the given records, in order. Callers hold the write lock.
func (d *DB) rebuild(records []*store.Record) error {
	if err := store.WriteRecordLog(d.metaPath, records); err != nil {
		return err
	}

	if len(records) == 0 {
		if err := os.Remove(d.indexPath); err != nil && !os.IsNotExist(err) {
			return storeerrors.Wrap(err, storeerrors.ErrCodeStorageUnavailable, "failed to remove index file")
		}
		d.index = nil
		d.meta = nil
		d.degraded = false
		return nil
	}

	index := NewFlatIndex(len(records[0].Embedding))
	for _, r := range records {
		if err := index.Add(r.Embedding); err != nil {
			return storeerrors.Wrap(err, storeerrors.ErrCodeConsistency, "failed to rebuild index")
		}
	}
	if err := index.Save(d.indexPath); err != nil {
		return storeerrors.Wrap(err, storeerrors.ErrCodeStorageUnavailable, "failed to persist rebuilt index")
	}
	d.index = index
	d.meta = records
	d.degraded = false
	return nil
}

// Reload discards in-memory state and re-reads both artifacts, picking up
// changes made by out-of-band writers.
func (d *DB) Reload() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.load()
	return nil
}

func (d *DB) Close() error {
	return nil
}
