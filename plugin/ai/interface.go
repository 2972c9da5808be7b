// Package ai provides the machine-learning collaborators of the diary:
// embeddings, emotion and context classification, sentiment derivation,
// risk scoring, and chat completion. The storage layer never imports this
// package; callers wire the two together.
package ai

import "context"

// EmotionClassifier labels text with emotions, ordered by descending
// confidence. May return an empty list.
type EmotionClassifier interface {
	ClassifyEmotions(ctx context.Context, text string) ([]string, error)
}

// ContextTagger labels text with context tags, ordered by descending
// confidence. May return an empty list.
type ContextTagger interface {
	ClassifyTags(ctx context.Context, text string) ([]string, error)
}
