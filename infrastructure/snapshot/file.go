// ABOUTME: File-backed agenda snapshot written as an indented JSON array
// ABOUTME: Writes go to a temp file and are renamed into place so readers never see partial data

package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"newsdesk-api/core/domain"
)

// FileStore persists the agenda to a single JSON file
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store writing to path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the snapshot file location
func (s *FileStore) Path() string {
	return s.path
}

// Save replaces the snapshot with items
func (s *FileStore) Save(ctx context.Context, items []domain.AgendaItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if items == nil {
		items = []domain.AgendaItem{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode agenda snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write agenda snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close agenda snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace agenda snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot. A missing file is an empty agenda.
func (s *FileStore) Load(ctx context.Context) ([]domain.AgendaItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read agenda snapshot: %w", err)
	}

	var items []domain.AgendaItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode agenda snapshot: %w", err)
	}
	return items, nil
}
