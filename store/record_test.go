package store

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomRecord(rng *rand.Rand) *Record {
	emb := make([]float32, 8)
	for i := range emb {
		emb[i] = rng.Float32()*2 - 1
	}
	labels := []string{"joy", "sadness", "work", "family", "health", "travel_commute"}
	pick := func(n int) []string {
		out := make([]string, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, labels[rng.Intn(len(labels))])
		}
		return out
	}
	r := &Record{
		ID:        NewRecordID(),
		Date:      "2025-11-03",
		Text:      "随便写点 something with unicode — λ and emoji 🙂",
		Embedding: emb,
		Sentiment: SentimentNeutral,
		Emotions:  pick(rng.Intn(3)),
		Tags:      pick(rng.Intn(3)),
	}
	if rng.Intn(2) == 0 {
		path := "images/2025/pic.png"
		desc := "a walk in the park"
		r.ImagePath = &path
		r.ImageDesc = &desc
	}
	return r
}

func TestRecordRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		original := randomRecord(rng)

		data, err := original.Marshal()
		require.NoError(t, err)

		decoded, err := UnmarshalRecord(data)
		require.NoError(t, err)
		assert.Equal(t, original, decoded)

		// Re-encoding must preserve every field value.
		again, err := decoded.Marshal()
		require.NoError(t, err)
		assert.JSONEq(t, string(data), string(again))
	}
}

func TestRecordRoundTripNullMedia(t *testing.T) {
	r := &Record{
		ID:        NewRecordID(),
		Date:      "2025-01-01",
		Text:      "no media attached",
		Embedding: []float32{1, 0, 0},
		Sentiment: SentimentPositive,
		Emotions:  []string{"joy"},
		Tags:      []string{"work"},
	}
	data, err := r.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"image_path":null`)

	decoded, err := UnmarshalRecord(data)
	require.NoError(t, err)
	assert.Nil(t, decoded.ImagePath)
	assert.Nil(t, decoded.ImageDesc)
	assert.Nil(t, decoded.VideoPath)
}

func TestNewRecordIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewRecordID()
		require.False(t, seen[id], "id %s generated twice", id)
		seen[id] = true
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"iso", "2025-03-09", "2025-03-09"},
		{"iso with spaces", "  2025-03-09  ", "2025-03-09"},
		{"day first dashes", "09-03-2025", "2025-03-09"},
		{"day first slashes", "09/03/2025", "2025-03-09"},
		{"year first slashes", "2025/03/09", "2025-03-09"},
		{"month name", "Mar 9, 2025", "2025-03-09"},
		{"day month name", "9 Mar 2025", "2025-03-09"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeDate(tt.input))
		})
	}

	t.Run("garbage falls back to today", func(t *testing.T) {
		assert.Equal(t, time.Now().Format("2006-01-02"), NormalizeDate("not a date"))
	})
	t.Run("empty falls back to today", func(t *testing.T) {
		assert.Equal(t, time.Now().Format("2006-01-02"), NormalizeDate(""))
	})
}
