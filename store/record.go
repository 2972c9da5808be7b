package store

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Sentiment buckets derived from emotion labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Record is one diary entry plus its derived annotations and embedding.
// Records are immutable by convention: the write path creates them once and
// a correction is modeled as delete-then-reinsert.
type Record struct {
	ID        string    `json:"doc_id"`
	Date      string    `json:"date"` // ISO-8601 calendar date
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
	Sentiment string    `json:"sentiment"`
	// Emotions and Tags are ordered by descending confidence.
	Emotions []string `json:"emotions"`
	Tags     []string `json:"tags"`
	// Optional attached media. Nil means no attachment; pointers keep the
	// JSON null round-trip intact for logs written by older versions.
	ImagePath *string `json:"image_path"`
	ImageDesc *string `json:"image_desc"`
	VideoPath *string `json:"video_path"`
}

// NewRecordID generates a globally unique record identifier.
// IDs are never reused, even after deletion.
func NewRecordID() string {
	return uuid.NewString()
}

// Marshal encodes the record as a single JSON line (without trailing newline).
func (r *Record) Marshal() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal record")
	}
	return data, nil
}

// UnmarshalRecord decodes one JSON line into a Record.
func UnmarshalRecord(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal record")
	}
	return &r, nil
}

// acceptedDateLayouts are the human date formats the write path accepts.
var acceptedDateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// NormalizeDate parses a date in one of several common formats and returns it
// as an ISO-8601 calendar date. Unparseable input falls back to today.
func NormalizeDate(s string) string {
	trimmed := strings.TrimSpace(s)
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return time.Now().Format("2006-01-02")
}
