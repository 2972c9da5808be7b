package ai

import (
	"context"
	"strings"
)

// RiskAssessment is the outcome of mental-health risk scoring for one text.
type RiskAssessment struct {
	// Probability is the risk score in [0, 1].
	Probability float64
	// Label is "Suicidal" when Probability >= 0.5, "Non-Suicidal" otherwise.
	Label string
	// Confidence is the confidence in the label, in [0, 1].
	Confidence float64
	// Matched lists the keywords that contributed to the score.
	Matched []string
}

// RiskScorer scores free text for mental-health risk. Model-backed
// implementations live behind this interface; KeywordRiskScorer is the
// built-in rule-based fallback.
type RiskScorer interface {
	Assess(ctx context.Context, text string) (*RiskAssessment, error)
}

// Keyword tiers for the rule-based fallback. High-risk phrases dominate the
// score; positive phrases pull it down.
var (
	highRiskKeywords = []string{
		"suicide", "kill myself", "end it all", "not worth living", "want to die",
		"end my life", "take my life", "hurt myself", "self harm", "cut myself",
		"overdose", "no point", "hopeless", "worthless", "useless",
		"hate myself", "deserve to die", "better off dead", "world without me",
		"nobody cares", "burden", "waste of space", "falling apart",
		"better off without me",
	}
	mediumRiskKeywords = []string{
		"depressed", "sad", "down", "empty", "numb", "lonely", "isolated",
		"anxious", "worried", "scared", "afraid", "panic", "overwhelmed",
		"tired", "exhausted", "drained", "burned out", "stressed",
		"angry", "rage", "furious", "bitter", "confused", "lost",
		"struggling", "depression", "dark thoughts", "losing hope", "lost hope",
		"cant cope", "cant handle",
	}
	positiveKeywords = []string{
		"happy", "excited", "joy", "great", "wonderful", "amazing", "fantastic",
		"good", "better", "improving", "progress", "success", "achievement",
		"proud", "confident", "hopeful", "optimistic", "positive",
		"grateful", "thankful", "content", "will pass", "feeling better",
		"getting better", "looking forward", "can handle", "will get through",
	}
)

// KeywordRiskScorer is a rule-based risk scorer requiring no model files.
type KeywordRiskScorer struct{}

// NewKeywordRiskScorer creates the rule-based fallback scorer.
func NewKeywordRiskScorer() *KeywordRiskScorer {
	return &KeywordRiskScorer{}
}

// Assess scores the text from tiered keyword matches. High-risk matches
// weigh 4, medium 2, positive matches 2 against; any high-risk match adds a
// flat boost, and medium-only matches are clamped into conservative bands.
func (s *KeywordRiskScorer) Assess(_ context.Context, text string) (*RiskAssessment, error) {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return &RiskAssessment{Label: "Non-Suicidal", Confidence: 1.0}, nil
	}

	var matched []string
	highCount := countMatches(lower, highRiskKeywords, &matched)
	mediumCount := countMatches(lower, mediumRiskKeywords, &matched)
	positiveCount := countMatches(lower, positiveKeywords, nil)

	totalRisk := float64(highCount*4 + mediumCount*2)
	totalPositive := float64(positiveCount * 2)

	var probability float64
	if totalRisk+totalPositive > 0 {
		probability = totalRisk / (totalRisk + totalPositive + 1)
	}
	if probability > 1 {
		probability = 1
	}

	if highCount > 0 {
		probability = minFloat(1.0, probability+0.4)
	}
	if mediumCount > 0 && highCount == 0 {
		if mediumCount == 1 {
			probability = minFloat(0.4, maxFloat(0.2, probability))
		} else {
			probability = minFloat(0.6, maxFloat(0.3, probability))
		}
	}

	label := "Non-Suicidal"
	confidence := 1.0 - probability
	if probability >= 0.5 {
		label = "Suicidal"
		confidence = probability
	}

	return &RiskAssessment{
		Probability: probability,
		Label:       label,
		Confidence:  confidence,
		Matched:     matched,
	}, nil
}

func countMatches(text string, keywords []string, matched *[]string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			count++
			if matched != nil {
				*matched = append(*matched, kw)
			}
		}
	}
	return count
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

var _ RiskScorer = (*KeywordRiskScorer)(nil)
