package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Write rewrites path with the pretty-printed, newline-terminated JSON
// encoding of t, atomically via a temp file plus rename — the same
// crash-safety contract embedstore.FileCache applies to
// topic-embeddings.json.
func Write(path string, t *Taxonomy) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".topic-taxonomy-*.json.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for taxonomy: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(t); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding taxonomy: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp taxonomy file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming taxonomy into place: %w", err)
	}
	return nil
}
