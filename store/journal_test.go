package store

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testRecord(id, text string, embedding []float32) *Record {
	return &Record{
		ID:        id,
		Date:      "2025-06-01",
		Text:      text,
		Embedding: embedding,
		Sentiment: SentimentNeutral,
		Emotions:  []string{"neutral"},
		Tags:      []string{"reflection_journaling"},
	}
}

func TestJournalAppendAndReadAll(t *testing.T) {
	dir := t.TempDir()
	journal := NewJournal(dir, testLogger())

	r1 := testRecord("id-1", "first entry", []float32{1, 0})
	r2 := testRecord("id-2", "second entry", []float32{0, 1})

	require.NoError(t, journal.Append([]*Record{r1}))
	require.NoError(t, journal.Append([]*Record{r2}))

	records, err := journal.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, r1, records[0])
	assert.Equal(t, r2, records[1])
}

func TestJournalMissingFileIsEmpty(t *testing.T) {
	journal := NewJournal(t.TempDir(), testLogger())

	records, err := journal.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestJournalSkipsCorruptLines(t *testing.T) {
	dir := t.TempDir()
	journal := NewJournal(dir, testLogger())

	r1 := testRecord("id-1", "good entry", []float32{1})
	r2 := testRecord("id-2", "another good entry", []float32{2})
	require.NoError(t, journal.Append([]*Record{r1}))

	// Inject a corrupt line between two valid ones.
	f, err := os.OpenFile(journal.Path(), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{this is not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, journal.Append([]*Record{r2}))

	records, err := journal.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "id-1", records[0].ID)
	assert.Equal(t, "id-2", records[1].ID)
}

func TestJournalRewrite(t *testing.T) {
	dir := t.TempDir()
	journal := NewJournal(dir, testLogger())

	r1 := testRecord("id-1", "keep", []float32{1})
	r2 := testRecord("id-2", "drop", []float32{2})
	require.NoError(t, journal.Append([]*Record{r1, r2}))

	require.NoError(t, journal.Rewrite([]*Record{r1}))

	records, err := journal.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "id-1", records[0].ID)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, JournalFile, entries[0].Name())
}

func TestWriteRecordLogEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.jsonl")

	require.NoError(t, WriteRecordLog(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}
