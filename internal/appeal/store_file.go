package appeal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one JSON file per record under dir, named by the record
// id. Ids are random, so concurrent creates never touch the same file and
// no locking is needed across records.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Create(ctx context.Context, a Appeal) (Record, error) {
	_ = ctx

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Record{}, fmt.Errorf("create data dir: %w", err)
	}

	rec := newRecord(a)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Cyrillic must be stored verbatim, not as \u escapes.
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return Record{}, fmt.Errorf("encode appeal record: %w", err)
	}

	// Write to a temp file and rename so a canceled or failed request
	// never leaves a half-written record visible to Get.
	tmp, err := os.CreateTemp(s.dir, "appeal_*.tmp")
	if err != nil {
		return Record{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return Record{}, fmt.Errorf("write appeal record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return Record{}, fmt.Errorf("write appeal record: %w", err)
	}

	if err := os.Rename(tmpName, s.path(rec.ID)); err != nil {
		_ = os.Remove(tmpName)
		return Record{}, fmt.Errorf("store appeal record: %w", err)
	}

	return rec, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (Record, error) {
	_ = ctx

	// An id with path separators can never name a record.
	if id == "" || filepath.Base(id) != id || strings.Contains(id, "..") {
		return Record{}, ErrNotFound
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("read appeal record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode appeal record %s: %w", id, err)
	}
	return rec, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, "appeal_"+id+".json")
}
