// Package pgvector implements the managed vector search backend on
// PostgreSQL with the pgvector extension. Unlike the embedded backend it has
// true upsert-by-id and applies label filters server-side before ranking, so
// no client-side overfetch is needed.
package pgvector

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	// Import the PostgreSQL driver.
	"github.com/lib/pq"
	pgv "github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	storeerrors "github.com/hrygo/mindlens/internal/errors"
	"github.com/hrygo/mindlens/internal/profile"
	"github.com/hrygo/mindlens/store"
)

// opTimeout bounds every call to the database so a stuck network never hangs
// a request; exceeding it surfaces as a recoverable error.
const opTimeout = 15 * time.Second

type DB struct {
	db        *sql.DB
	profile   *profile.Profile
	logger    *slog.Logger
	dimension int
}

// NewDB opens the PostgreSQL connection, verifies it, and runs the schema
// migration. Connection failures are fatal configuration errors.
func NewDB(profile *profile.Profile, logger *slog.Logger) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, storeerrors.Wrap(err, storeerrors.ErrCodeInvalidConfig, "failed to open database")
	}

	// Single-user diary: a small pool keeps resource usage low while staying
	// responsive.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Hour)
	db.SetConnMaxIdleTime(15 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, storeerrors.Wrap(err, storeerrors.ErrCodeInvalidConfig, "failed to ping database")
	}

	d := &DB{
		db:        db,
		profile:   profile,
		logger:    logger,
		dimension: profile.AIEmbeddingDimension,
	}
	if err := d.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS diary_record (
			doc_id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			text_content TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			sentiment TEXT NOT NULL DEFAULT 'neutral',
			emotions TEXT[] NOT NULL DEFAULT '{}',
			tags TEXT[] NOT NULL DEFAULT '{}',
			image_path TEXT,
			image_desc TEXT,
			video_path TEXT,
			created_ts BIGINT NOT NULL
		)`, d.dimension),
		`CREATE INDEX IF NOT EXISTS idx_diary_record_embedding
			ON diary_record USING hnsw (embedding vector_cosine_ops)`,
	}
	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return storeerrors.Wrap(err, storeerrors.ErrCodeInvalidConfig, "failed to run migration")
		}
	}
	return nil
}

// Upsert sends each record to the service; a second call with the same id
// replaces the first.
func (d *DB) Upsert(ctx context.Context, records []*store.Record) error {
	for _, r := range records {
		if len(r.Embedding) != d.dimension {
			return storeerrors.Newf(storeerrors.ErrCodeDimensionMismatch,
				"record %s embedding dimension %d does not match configured dimension %d",
				r.ID, len(r.Embedding), d.dimension)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	stmt := `
		INSERT INTO diary_record (
			doc_id, date, text_content, embedding, sentiment, emotions, tags,
			image_path, image_desc, video_path, created_ts
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (doc_id)
		DO UPDATE SET
			date = EXCLUDED.date,
			text_content = EXCLUDED.text_content,
			embedding = EXCLUDED.embedding,
			sentiment = EXCLUDED.sentiment,
			emotions = EXCLUDED.emotions,
			tags = EXCLUDED.tags,
			image_path = EXCLUDED.image_path,
			image_desc = EXCLUDED.image_desc,
			video_path = EXCLUDED.video_path
	`
	for _, r := range records {
		_, err := d.db.ExecContext(ctx, stmt,
			r.ID,
			r.Date,
			r.Text,
			pgv.NewVector(r.Embedding),
			r.Sentiment,
			pq.Array(labelsOrEmpty(r.Emotions)),
			pq.Array(labelsOrEmpty(r.Tags)),
			r.ImagePath,
			r.ImageDesc,
			r.VideoPath,
			time.Now().Unix(),
		)
		if err != nil {
			return storeerrors.Wrap(err, storeerrors.ErrCodeStorageUnavailable, "failed to upsert diary record")
		}
	}
	return nil
}

// Query ranks by cosine distance and pushes the label filters into the WHERE
// clause with array overlap, so the service guarantees filter correctness
// before ranking.
func (d *DB) Query(ctx context.Context, vector []float32, k int, filter *store.QueryFilter) ([]*store.Hit, error) {
	if k <= 0 {
		return nil, nil
	}
	if len(vector) != d.dimension {
		return nil, storeerrors.Newf(storeerrors.ErrCodeDimensionMismatch,
			"query vector dimension %d does not match configured dimension %d", len(vector), d.dimension)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	where, args := []string{"1 = 1"}, []any{pgv.NewVector(vector)}
	if filter != nil && len(filter.Tags) > 0 {
		args = append(args, pq.Array(filter.Tags))
		where = append(where, fmt.Sprintf("tags && $%d", len(args)))
	}
	if filter != nil && len(filter.Emotions) > 0 {
		args = append(args, pq.Array(filter.Emotions))
		where = append(where, fmt.Sprintf("emotions && $%d", len(args)))
	}
	args = append(args, k)

	// The <=> operator computes cosine distance (1 - cosine similarity),
	// so ordering ascending puts the most similar first.
	query := `
		SELECT
			doc_id, date, text_content, embedding, sentiment, emotions, tags,
			image_path, image_desc, video_path,
			1 - (embedding <=> $1) AS score
		FROM diary_record
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY embedding <=> $1
		LIMIT $` + fmt.Sprint(len(args))

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeerrors.Wrap(err, storeerrors.ErrCodeStorageUnavailable, "failed to query diary records")
	}
	defer rows.Close()

	hits := []*store.Hit{}
	for rows.Next() {
		var r store.Record
		var embedding pgv.Vector
		var emotions, tags pq.StringArray
		var score float64
		err := rows.Scan(
			&r.ID,
			&r.Date,
			&r.Text,
			&embedding,
			&r.Sentiment,
			&emotions,
			&tags,
			&r.ImagePath,
			&r.ImageDesc,
			&r.VideoPath,
			&score,
		)
		if err != nil {
			return nil, storeerrors.Wrap(err, storeerrors.ErrCodeStorageUnavailable, "failed to scan diary record")
		}
		r.Embedding = embedding.Slice()
		r.Emotions = emotions
		r.Tags = tags
		hits = append(hits, &store.Hit{Record: &r, Score: float32(score)})
	}
	if err := rows.Err(); err != nil {
		return nil, storeerrors.Wrap(err, storeerrors.ErrCodeStorageUnavailable, "failed to iterate diary records")
	}
	return hits, nil
}

// Delete removes the record by id. Deleting an unknown id is a no-op.
func (d *DB) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := d.db.ExecContext(ctx, `DELETE FROM diary_record WHERE doc_id = $1`, id); err != nil {
		return storeerrors.Wrap(err, storeerrors.ErrCodeStorageUnavailable, "failed to delete diary record")
	}
	return nil
}

// Reload is a no-op: queries always reflect the database's persisted state.
func (d *DB) Reload() error {
	return nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// labelsOrEmpty keeps nil label slices out of the driver so they land as
// empty arrays instead of NULL.
func labelsOrEmpty(labels []string) []string {
	if labels == nil {
		return []string{}
	}
	return labels
}
