package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVotesToSentiment(t *testing.T) {
	tests := []struct {
		name     string
		emotions []string
		expected string
	}{
		{"no emotions", nil, "neutral"},
		{"single positive", []string{"joy"}, "positive"},
		{"single negative", []string{"sadness"}, "negative"},
		{"positive majority", []string{"joy", "gratitude", "sadness"}, "positive"},
		{"negative majority", []string{"anger", "fear", "relief"}, "negative"},
		{"tie is neutral", []string{"joy", "sadness"}, "neutral"},
		{"unknown label counts as neutral", []string{"melancholy"}, "neutral"},
		{"case insensitive", []string{"JOY", "Gratitude"}, "positive"},
		{"neutral outvotes both", []string{"neutral", "realization", "joy"}, "neutral"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VotesToSentiment(tt.emotions))
		})
	}
}
