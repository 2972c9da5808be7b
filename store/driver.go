package store

import (
	"context"
)

// QueryFilter restricts similarity search candidates by label membership.
// A record matches when it carries any of the requested labels
// (set intersection), not all of them. Nil slices impose no constraint.
type QueryFilter struct {
	Tags     []string
	Emotions []string
}

// IsZero reports whether the filter imposes no constraint at all.
func (f *QueryFilter) IsZero() bool {
	return f == nil || (len(f.Tags) == 0 && len(f.Emotions) == 0)
}

// Matches reports whether the record satisfies every present label condition.
func (f *QueryFilter) Matches(r *Record) bool {
	if f == nil {
		return true
	}
	if len(f.Tags) > 0 && !intersects(f.Tags, r.Tags) {
		return false
	}
	if len(f.Emotions) > 0 && !intersects(f.Emotions, r.Emotions) {
		return false
	}
	return true
}

func intersects(wanted, have []string) bool {
	for _, w := range wanted {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}

// Hit is one similarity search result. Score is a similarity, higher first:
// raw inner product on the embedded backend, 1 - cosine distance on pgvector.
type Hit struct {
	Record *Record
	Score  float32
}

// Driver is the vector search backend contract. Exactly two implementations
// exist: the embedded flat index and the pgvector database. Callers go
// through Store and never branch on the concrete type.
type Driver interface {
	// Upsert persists the given records. The embedded backend appends
	// without dedup (id uniqueness is the caller's contract); pgvector
	// overwrites by id.
	Upsert(ctx context.Context, records []*Record) error

	// Query returns up to k hits ranked by descending similarity.
	// An empty store yields an empty slice, never an error.
	Query(ctx context.Context, vector []float32, k int, filter *QueryFilter) ([]*Hit, error)

	// Delete removes the record with the given id from the backend's own
	// durable artifacts. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string) error

	// Reload discards in-memory state and re-reads persisted state, picking
	// up changes made by out-of-band writers. No-op for backends whose
	// queries always reflect persisted state.
	Reload() error

	Close() error
}
