package memory

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
)

// Ensure DocumentFiler implements the interface.
var _ driven.DocumentFiler = (*DocumentFiler)(nil)

// DocumentFiler is an in-memory implementation of driven.DocumentFiler.
// It records what would have been written instead of touching disk.
type DocumentFiler struct {
	mu          sync.RWMutex
	filed       map[string]string
	sidecars    map[string]domain.DocumentRecord
	quarantined []string
	failFor     map[string]error
}

// NewDocumentFiler creates a new in-memory filer.
func NewDocumentFiler() *DocumentFiler {
	return &DocumentFiler{
		filed:    make(map[string]string),
		sidecars: make(map[string]domain.DocumentRecord),
		failFor:  make(map[string]error),
	}
}

// FailFor makes File return err for sources with the given base name.
func (f *DocumentFiler) FailFor(fileName string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failFor[fileName] = err
}

// File records src as copied into the folder.
func (f *DocumentFiler) File(_ context.Context, src, folderID string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := filepath.Base(src)
	if err := f.failFor[name]; err != nil {
		return "", "", fmt.Errorf("%w: %w", domain.ErrFiling, err)
	}
	dest := path.Join(folderID, name)
	f.filed[src] = dest
	return dest, "", nil
}

// WriteSidecar records the sidecar.
func (f *DocumentFiler) WriteSidecar(_ context.Context, rec *domain.DocumentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sidecars[rec.FilePath] = *rec
	return nil
}

// QuarantineForReview records src as copied to the review area.
func (f *DocumentFiler) QuarantineForReview(_ context.Context, src string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quarantined = append(f.quarantined, src)
	return path.Join("_Manual_Review", filepath.Base(src)), nil
}

// Filed returns the destination recorded for src.
func (f *DocumentFiler) Filed(src string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	dest, ok := f.filed[src]
	return dest, ok
}

// Sidecars returns the number of sidecars written.
func (f *DocumentFiler) Sidecars() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.sidecars)
}

// Quarantined returns the sources sent to review, in order.
func (f *DocumentFiler) Quarantined() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string{}, f.quarantined...)
}
