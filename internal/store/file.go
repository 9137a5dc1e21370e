package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/noah-isme/campus-funding-api/internal/models"
)

// FileStore keeps the snapshot in a single JSON file, fully overwritten on
// every save. The default backend.
type FileStore struct {
	path string
}

// NewFile returns a file-backed store writing to path.
func NewFile(path string) *FileStore {
	if path == "" {
		path = "./data.json"
	}
	return &FileStore{path: path}
}

// Load reads the snapshot file. A missing file is an empty state, not an
// error; corrupt content decodes to an empty state.
func (s *FileStore) Load(ctx context.Context) (models.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Snapshot{}, nil
		}
		return models.Snapshot{}, fmt.Errorf("read snapshot file: %w", err)
	}
	return Decode(data), nil
}

// Save overwrites the snapshot file with the full state.
func (s *FileStore) Save(ctx context.Context, snap models.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("prepare snapshot directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	return nil
}
