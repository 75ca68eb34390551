package embedstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileCache persists the EmbeddingDatabase as a single pretty-printed JSON
// file, rewritten atomically via a temp file plus rename so a crash or
// concurrent reader never observes a partially written database.
type FileCache struct {
	Path string
}

func NewFileCache(path string) *FileCache {
	return &FileCache{Path: path}
}

func (c *FileCache) Load(ctx context.Context) (*Database, bool, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading embedding cache %s: %w", c.Path, err)
	}

	var db Database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, false, fmt.Errorf("parsing embedding cache %s: %w", c.Path, err)
	}
	return &db, true, nil
}

func (c *FileCache) Save(ctx context.Context, db *Database) error {
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".topic-embeddings-*.json.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for embedding cache: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(db); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding embedding cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp embedding cache file: %w", err)
	}

	if err := os.Rename(tmpPath, c.Path); err != nil {
		return fmt.Errorf("renaming embedding cache into place: %w", err)
	}
	return nil
}
