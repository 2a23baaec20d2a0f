package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/doeshing/devflow-go/internal/domain"
	"github.com/doeshing/devflow-go/internal/ports"
)

// FileStore is the jsonl fallback used when the history database cannot be opened.
// One record per line, oldest first.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a history store backed by the jsonl file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save appends one line.
func (f *FileStore) Save(record domain.HistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.SecureFilePermissions)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(file).Encode(record); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (f *FileStore) Path() string {
	return f.path
}

// Close is a no-op; each call opens and closes the file itself.
func (f *FileStore) Close() error {
	return nil
}

// Clear deletes the file; a missing file is not an error.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Records returns up to limit matches, newest first. Search is a
// case-insensitive substring match on the command and error text, like the
// SQL LIKE used by SQLiteStore. Malformed lines are skipped.
func (f *FileStore) Records(limit int, search string) ([]domain.HistoryRecord, error) {
	all, err := f.readAll()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(search)
	var out []domain.HistoryRecord
	for i := len(all) - 1; i >= 0; i-- {
		rec := all[i]
		if needle != "" &&
			!strings.Contains(strings.ToLower(rec.Command), needle) &&
			!strings.Contains(strings.ToLower(rec.Error), needle) {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *FileStore) readAll() ([]domain.HistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var records []domain.HistoryRecord
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec domain.HistoryRecord
		if json.Unmarshal(line, &rec) == nil {
			records = append(records, rec)
		}
	}
	return records, scanner.Err()
}

var _ ports.HistoryRepository = (*FileStore)(nil)
