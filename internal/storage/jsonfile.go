package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const (
	historyFileName = "war_history.json"
	counterFileName = "id_counter.json"
)

// FileStore keeps the war history in a JSON file and the id counter in a
// sibling file. Writes go through a temp file and rename so a crash mid
// write cannot truncate the history.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) LoadHistory(_ context.Context) ([]HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *FileStore) AppendHistory(_ context.Context, rec HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.loadLocked()
	if err != nil {
		return err
	}
	history = append(history, rec)

	data, err := json.MarshalIndent(history, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return s.writeFileLocked(historyFileName, data)
}

func (s *FileStore) NextID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counter := 0
	data, err := os.ReadFile(filepath.Join(s.dir, counterFileName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return "", fmt.Errorf("read id counter: %w", err)
	default:
		if err := json.Unmarshal(data, &counter); err != nil {
			return "", fmt.Errorf("parse id counter: %w", err)
		}
	}

	counter++
	out, _ := json.Marshal(counter)
	if err := s.writeFileLocked(counterFileName, out); err != nil {
		return "", err
	}
	return fmt.Sprintf("%05d", counter), nil
}

func (s *FileStore) loadLocked() ([]HistoryRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, historyFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var history []HistoryRecord
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return history, nil
}

func (s *FileStore) writeFileLocked(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
