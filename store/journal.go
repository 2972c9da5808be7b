package store

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	storeerrors "github.com/hrygo/mindlens/internal/errors"
	"github.com/hrygo/mindlens/internal/observability"
)

// JournalFile is the append-only journal, one JSON record per line.
// The name is kept from the original MindLens data layout so existing data
// directories keep working.
const JournalFile = "entries.jsonl"

// maxRecordLine bounds a single journal line. Entries carry full embeddings,
// so lines get long; 16 MiB leaves ample headroom.
const maxRecordLine = 16 * 1024 * 1024

// Journal is the durable, human-inspectable history of every record ever
// written, independent of which vector backend is active. It only grows,
// except during an explicit rewrite performed by the delete procedure.
type Journal struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewJournal creates a journal backed by entries.jsonl under dataDir.
func NewJournal(dataDir string, logger *slog.Logger) *Journal {
	return &Journal{
		path:   filepath.Join(dataDir, JournalFile),
		logger: logger,
	}
}

// Path returns the journal file location.
func (j *Journal) Path() string {
	return j.path
}

// Append writes one JSON line per record and flushes before returning.
// It never consults the vector backend.
func (j *Journal) Append(records []*Record) error {
	if len(records) == 0 {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return AppendRecordLog(j.path, records)
}

// AppendRecordLog appends one JSON line per record to a jsonl record log,
// creating the file when missing, and flushes before returning.
func AppendRecordLog(path string, records []*Record) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return storeerrors.Wrap(err, storeerrors.ErrCodeStorageUnavailable, "failed to open record log for append")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, r := range records {
		line, err := r.Marshal()
		if err != nil {
			return err
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return storeerrors.Wrap(err, storeerrors.ErrCodeStorageUnavailable, "failed to append to record log")
		}
	}
	if err := w.Flush(); err != nil {
		return storeerrors.Wrap(err, storeerrors.ErrCodeStorageUnavailable, "failed to flush record log")
	}
	return f.Sync()
}

// ReadAll returns every record currently in the journal. A missing file is an
// empty journal. Lines that fail to parse are skipped and logged, never fatal.
func (j *Journal) ReadAll() ([]*Record, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return ReadRecordLog(j.path, j.logger)
}

// Rewrite atomically replaces the journal content with the given records.
// Used only by the delete procedure; normal writes go through Append.
func (j *Journal) Rewrite(records []*Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return WriteRecordLog(j.path, records)
}

// ReadRecordLog parses a jsonl record file line by line, skipping corrupt
// lines so one bad entry never hides the rest of the history. A missing file
// yields an empty history. Shared by the journal and the index metadata log.
func ReadRecordLog(path string, logger *slog.Logger) ([]*Record, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeerrors.Wrap(err, storeerrors.ErrCodeStorageUnavailable, "failed to open record log")
	}
	defer f.Close()

	var records []*Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxRecordLine)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		r, err := UnmarshalRecord(line)
		if err != nil {
			if logger != nil {
				logger.Warn("skipping corrupt record line",
					slog.String(observability.LogFieldPath, path),
					slog.Int(observability.LogFieldLine, lineNo),
					slog.String("error", err.Error()))
			}
			continue
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, storeerrors.Wrap(err, storeerrors.ErrCodeStorageUnavailable, "failed to scan record log")
	}
	return records, nil
}

// WriteRecordLog writes records to a temp file in the same directory and
// renames it over path, so readers never observe a half-written file.
func WriteRecordLog(path string, records []*Record) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return storeerrors.Wrap(err, storeerrors.ErrCodeStorageUnavailable, "failed to create temp file")
	}
	tmpName := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpName)
	}()

	w := bufio.NewWriter(tmp)
	for _, r := range records {
		line, err := r.Marshal()
		if err != nil {
			return err
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return errors.Wrap(err, "failed to write temp record log")
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush temp record log")
	}
	if err := tmp.Sync(); err != nil {
		return errors.Wrap(err, "failed to sync temp record log")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close temp record log")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return storeerrors.Wrap(err, storeerrors.ErrCodeStorageUnavailable, "failed to replace record log")
	}
	return nil
}
