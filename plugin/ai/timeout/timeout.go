// Package timeout defines centralized timeout constants for AI operations.
package timeout

import "time"

const (
	// EmbeddingTimeout is the timeout for embedding generation.
	EmbeddingTimeout = 30 * time.Second

	// AnnotateTimeout is the timeout for the whole annotation fan-out
	// (emotions, tags, risk) on one entry.
	AnnotateTimeout = 30 * time.Second

	// ChatTimeout is the timeout for a chat completion call.
	ChatTimeout = 60 * time.Second

	// MaxSummaryHits is the number of retrieved entries handed to the
	// summarizer; more adds latency without improving answers.
	MaxSummaryHits = 8

	// MaxTruncateLength is the maximum length for truncating strings in logs.
	MaxTruncateLength = 200
)
