package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/castmap/topictaxonomy/internal/errs"
)

// DirLock is the advisory, process-wide resource scoped to one driver
// run: it prevents two concurrent runs from writing the same output
// directory, released on every exit path.
type DirLock struct {
	flock *flock.Flock
}

// AcquireDirLock takes a non-blocking advisory lock on a sentinel file
// inside dir. It fails fast with errs.LockHeld if another process already
// holds it, rather than blocking the caller indefinitely.
func AcquireDirLock(dir string) (*DirLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, ".topictaxonomy.lock")
	fl := flock.New(path)

	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring output directory lock: %w", err)
	}
	if !ok {
		return nil, errs.New(errs.LockHeld, dir)
	}
	return &DirLock{flock: fl}, nil
}

// Release unlocks the directory. Safe to call multiple times.
func (l *DirLock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	return l.flock.Unlock()
}
