// Package lock provides a cross-process writer lock on the storage root.
package lock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
)

// FileName is the lock file created inside the storage root.
const FileName = ".docfiler.lock"

// Ensure FileLock implements the interface.
var _ driven.ProcessLock = (*FileLock)(nil)

// FileLock is an advisory flock(2) lock. The file itself is left in place
// after Unlock; only the kernel lock matters.
type FileLock struct {
	path string
	lock *flock.Flock
}

// New creates a lock for <root>/.docfiler.lock. The root is created if needed.
func New(root string) (*FileLock, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	path := filepath.Join(root, FileName)
	return &FileLock{path: path, lock: flock.New(path)}, nil
}

// TryLock acquires the lock without blocking.
func (l *FileLock) TryLock() (bool, error) {
	ok, err := l.lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("acquire lock: %w", err)
	}
	return ok, nil
}

// Unlock releases the lock.
func (l *FileLock) Unlock() error {
	return l.lock.Unlock()
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}
