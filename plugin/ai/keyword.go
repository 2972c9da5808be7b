package ai

import (
	"context"
	"sort"
	"strings"
)

// Keyword-based classifier fallbacks. The model-backed classifiers live
// behind EmotionClassifier/ContextTagger; these implementations need no
// model files and keep the diary usable offline.

// tagKeywords maps context categories to trigger keywords.
var tagKeywords = map[string][]string{
	"work":                  {"work", "job", "office", "meeting", "presentation", "boss", "colleague", "project", "deadline", "business"},
	"study_learning":        {"study", "learn", "school", "university", "college", "class", "lecture", "homework", "exam", "test", "course"},
	"family":                {"family", "mother", "father", "mom", "dad", "sister", "brother", "parent", "relative", "aunt", "uncle"},
	"health":                {"health", "doctor", "hospital", "medicine", "sick", "ill", "pain", "exercise", "gym", "fitness", "medical"},
	"relationships":         {"friend", "boyfriend", "girlfriend", "partner", "relationship", "love", "dating", "marriage", "wedding"},
	"leisure_entertainment": {"movie", "film", "music", "game", "party", "fun", "entertainment", "hobby", "sport"},
	"travel_commute":        {"travel", "vacation", "trip", "flight", "train", "commute", "drive", "airport", "hotel"},
	"routine_chores":        {"cook", "cooking", "clean", "cleaning", "grocery", "shopping", "laundry", "dishes", "housework"},
	"finance_money":         {"money", "salary", "budget", "bill", "rent", "loan", "savings", "invest", "bank"},
	"stress_mental_state":   {"stress", "stressed", "anxious", "anxiety", "overwhelmed", "pressure", "burnout", "therapy"},
	"goals_planning":        {"goal", "plan", "planning", "resolution", "target", "milestone", "schedule"},
	"self_care":             {"rest", "relax", "meditate", "meditation", "sleep", "nap", "walk", "journal"},
	"achievement":           {"achieved", "achievement", "finished", "completed", "won", "promotion", "success", "passed"},
}

// emotionKeywords maps emotion labels to trigger keywords.
var emotionKeywords = map[string][]string{
	"joy":            {"happy", "joy", "glad", "delighted", "cheerful", "wonderful", "great"},
	"excitement":     {"excited", "thrilled", "can't wait", "cant wait", "eager"},
	"gratitude":      {"grateful", "thankful", "appreciate", "blessed"},
	"love":           {"love", "adore", "cherish"},
	"optimism":       {"hopeful", "optimistic", "looking forward", "will get through"},
	"pride":          {"proud", "accomplished"},
	"relief":         {"relieved", "relief", "finally over"},
	"sadness":        {"sad", "unhappy", "crying", "cried", "tears", "miserable", "down"},
	"anger":          {"angry", "furious", "mad", "rage", "annoyed", "irritated"},
	"fear":           {"afraid", "scared", "terrified", "fear", "panic"},
	"nervousness":    {"nervous", "anxious", "worried", "uneasy", "tense"},
	"disappointment": {"disappointed", "letdown", "let down", "failed"},
	"grief":          {"grief", "mourning", "loss", "passed away", "died"},
	"remorse":        {"sorry", "regret", "guilty", "ashamed"},
	"confusion":      {"confused", "unsure", "don't understand", "dont understand", "lost"},
	"curiosity":      {"curious", "wondering", "interested"},
}

type keywordHit struct {
	label string
	count int
}

// matchKeywordLabels returns labels whose keywords occur in text, ordered by
// descending match count, ties alphabetical for stable output.
func matchKeywordLabels(text string, mapping map[string][]string) []string {
	lower := strings.ToLower(text)
	var hits []keywordHit
	for label, keywords := range mapping {
		count := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				count++
			}
		}
		if count > 0 {
			hits = append(hits, keywordHit{label: label, count: count})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].count != hits[j].count {
			return hits[i].count > hits[j].count
		}
		return hits[i].label < hits[j].label
	})
	labels := make([]string, len(hits))
	for i, h := range hits {
		labels[i] = h.label
	}
	return labels
}

// KeywordEmotionClassifier labels emotions from keyword matches.
type KeywordEmotionClassifier struct{}

func NewKeywordEmotionClassifier() *KeywordEmotionClassifier {
	return &KeywordEmotionClassifier{}
}

func (c *KeywordEmotionClassifier) ClassifyEmotions(_ context.Context, text string) ([]string, error) {
	labels := matchKeywordLabels(text, emotionKeywords)
	if len(labels) == 0 {
		labels = []string{"neutral"}
	}
	return labels, nil
}

// KeywordTagger labels context categories from keyword matches.
type KeywordTagger struct{}

func NewKeywordTagger() *KeywordTagger {
	return &KeywordTagger{}
}

func (c *KeywordTagger) ClassifyTags(_ context.Context, text string) ([]string, error) {
	return matchKeywordLabels(text, tagKeywords), nil
}

var (
	_ EmotionClassifier = (*KeywordEmotionClassifier)(nil)
	_ ContextTagger     = (*KeywordTagger)(nil)
)
