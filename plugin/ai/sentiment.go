package ai

import "strings"

// emotionToSentiment maps GoEmotions-style labels to sentiment buckets.
var emotionToSentiment = map[string]string{
	// Positive
	"joy":        "positive",
	"admiration": "positive",
	"amusement":  "positive",
	"approval":   "positive",
	"excitement": "positive",
	"gratitude":  "positive",
	"love":       "positive",
	"optimism":   "positive",
	"pride":      "positive",
	"relief":     "positive",
	"desire":     "positive",
	"caring":     "positive",
	"curiosity":  "positive",
	"surprise":   "positive",

	// Negative
	"anger":          "negative",
	"annoyance":      "negative",
	"disappointment": "negative",
	"disapproval":    "negative",
	"embarrassment":  "negative",
	"fear":           "negative",
	"grief":          "negative",
	"nervousness":    "negative",
	"remorse":        "negative",
	"sadness":        "negative",
	"disgust":        "negative",
	"confusion":      "negative",
	"anxiety":        "negative",

	// Neutralish
	"realization": "neutral",
	"neutral":     "neutral",
	"boredom":     "neutral",
}

// VotesToSentiment derives a sentiment bucket from emotion labels by
// majority vote. Unknown labels count as neutral; a tie is neutral.
func VotesToSentiment(emotions []string) string {
	if len(emotions) == 0 {
		return "neutral"
	}
	counts := map[string]int{"positive": 0, "negative": 0, "neutral": 0}
	for _, e := range emotions {
		s, ok := emotionToSentiment[strings.ToLower(e)]
		if !ok {
			s = "neutral"
		}
		counts[s]++
	}
	if counts["positive"] > counts["negative"] && counts["positive"] > counts["neutral"] {
		return "positive"
	}
	if counts["negative"] > counts["positive"] && counts["negative"] > counts["neutral"] {
		return "negative"
	}
	return "neutral"
}
