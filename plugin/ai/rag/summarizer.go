// Package rag turns retrieved diary entries into an answer for a
// natural-language query: a chat-completion summary when an LLM is
// configured, an extractive summary otherwise.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hrygo/mindlens/plugin/ai"
	"github.com/hrygo/mindlens/plugin/ai/timeout"
	"github.com/hrygo/mindlens/store"
)

const systemPrompt = `You are MindLens, an empathetic and insightful diary assistant.
You receive a user's question and the most relevant diary excerpts retrieved
for it. Analyze them carefully and produce a thoughtful, coherent summary
that addresses the question. Refer to entries by date, stay grounded in the
excerpts, and do not invent events.`

// Summarizer answers a query from retrieved hits.
type Summarizer struct {
	llm    ai.LLMService // nil means extractive summaries only
	logger *slog.Logger
}

// NewSummarizer creates a Summarizer. A nil llm skips chat completion and
// always produces the extractive fallback.
func NewSummarizer(llm ai.LLMService, logger *slog.Logger) *Summarizer {
	return &Summarizer{llm: llm, logger: logger}
}

// Summarize answers the query from the hits. LLM failures degrade to the
// extractive summary, never to an error.
func (s *Summarizer) Summarize(ctx context.Context, query string, hits []*store.Hit) string {
	if len(hits) == 0 {
		return "No matching entries found."
	}
	if len(hits) > timeout.MaxSummaryHits {
		hits = hits[:timeout.MaxSummaryHits]
	}

	if s.llm != nil {
		ctx, cancel := context.WithTimeout(ctx, timeout.ChatTimeout)
		defer cancel()

		answer, err := s.llm.Chat(ctx, []ai.Message{
			ai.SystemPrompt(systemPrompt),
			ai.UserMessage(buildPrompt(query, hits)),
		})
		if err == nil && strings.TrimSpace(answer) != "" {
			return strings.TrimSpace(answer)
		}
		if err != nil && s.logger != nil {
			s.logger.Warn("summary generation failed, using extractive summary",
				slog.String("error", err.Error()))
		}
	}
	return formatSimpleSummary(query, hits)
}

func buildPrompt(query string, hits []*store.Hit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Query: %s\n\nRelevant diary excerpts:\n", query)
	for _, h := range hits {
		r := h.Record
		fmt.Fprintf(&b, "- [%s] %s (emotions: %s; tags: %s; sentiment: %s)\n",
			r.Date, r.Text,
			strings.Join(r.Emotions, ", "),
			strings.Join(r.Tags, ", "),
			r.Sentiment)
	}
	return b.String()
}

// formatSimpleSummary is the extractive fallback when no LLM is available.
func formatSimpleSummary(query string, hits []*store.Hit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summary for: %s\n\nFound %d relevant entries:\n\n", query, len(hits))
	for i, h := range hits {
		r := h.Record
		text := r.Text
		if runes := []rune(text); len(runes) > 150 {
			text = string(runes[:150]) + "..."
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, r.Date, text)
		fmt.Fprintf(&b, "   Emotions: %s\n", strings.Join(r.Emotions, ", "))
		fmt.Fprintf(&b, "   Sentiment: %s\n", r.Sentiment)
		fmt.Fprintf(&b, "   Tags: %s\n\n", strings.Join(r.Tags, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
