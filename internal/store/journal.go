package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/skalanux/ktm/internal/model"
)

// SchemaVersion is the current journal schema version.
const SchemaVersion = 1

// Journal is an append-only log of notification lifecycle records.
type Journal interface {
	// Append adds a record to the journal.
	Append(r model.Record) error

	// Load reads every record in the journal, oldest first.
	Load() ([]model.Record, error)

	// Clear removes all records.
	Clear() error

	// Close releases file handles.
	Close() error
}

// schemaHeader is the first line of the JSONL file.
type schemaHeader struct {
	KtmSchemaVersion int   `json:"ktm_schema_version"`
	CreatedAt        int64 `json:"created_at"`
}

// ErrJournalClosed is returned when operations are attempted on a closed journal.
var ErrJournalClosed = errors.New("journal is closed")

// JSONLJournal implements Journal using a JSONL file.
type JSONLJournal struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	closed bool
}

// OpenJSONLJournal opens the journal at path, creating the file and its
// parent directory if needed.
func OpenJSONLJournal(path string) (*JSONLJournal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}

	j := &JSONLJournal{path: path, file: file}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.Size() == 0 {
		if err := j.writeHeader(); err != nil {
			file.Close()
			return nil, err
		}
	}

	return j, nil
}

// Path returns the journal file path.
func (j *JSONLJournal) Path() string {
	return j.path
}

func (j *JSONLJournal) writeHeader() error {
	data, err := json.Marshal(schemaHeader{
		KtmSchemaVersion: SchemaVersion,
		CreatedAt:        time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	_, err = j.file.Write(append(data, '\n'))
	return err
}

// Append adds a record to the journal.
func (j *JSONLJournal) Append(r model.Record) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrJournalClosed
	}
	if _, err := j.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write %s: %w", j.path, err)
	}
	return nil
}

// Load reads every record in the journal. Malformed lines are skipped.
func (j *JSONLJournal) Load() ([]model.Record, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil, ErrJournalClosed
	}

	if _, err := j.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek %s: %w", j.path, err)
	}
	records, err := readRecords(j.file)
	if _, serr := j.file.Seek(0, io.SeekEnd); serr != nil && err == nil {
		err = serr
	}
	return records, err
}

// Clear truncates the journal and writes a fresh header.
func (j *JSONLJournal) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrJournalClosed
	}
	if err := j.file.Truncate(0); err != nil {
		return fmt.Errorf("truncate %s: %w", j.path, err)
	}
	if err := j.writeHeader(); err != nil {
		return err
	}
	return j.file.Sync()
}

// Close releases the file handle.
func (j *JSONLJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true
	return j.file.Close()
}

// ReadJournal reads the records of a journal file without opening it for
// writing. A missing file yields no records.
func ReadJournal(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return readRecords(f)
}

func readRecords(r io.Reader) ([]model.Record, error) {
	var records []model.Record
	scanner := bufio.NewScanner(r)

	// Bodies can be long.
	const maxLineSize = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if lineNum == 1 {
			var header schemaHeader
			if err := json.Unmarshal(line, &header); err == nil && header.KtmSchemaVersion > 0 {
				if header.KtmSchemaVersion > SchemaVersion {
					return nil, fmt.Errorf("unsupported schema version %d (max: %d)",
						header.KtmSchemaVersion, SchemaVersion)
				}
				continue
			}
		}

		var rec model.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if rec.Validate() == nil {
			records = append(records, rec)
		}
	}

	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("error reading journal: %w", err)
	}
	return records, nil
}
