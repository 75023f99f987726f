package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
)

// Ensure PersonRegistry implements the interface.
var _ driven.PersonRegistry = (*PersonRegistry)(nil)

// PersonRegistry is an in-memory implementation of driven.PersonRegistry.
// Folders are enumerated in creation order.
type PersonRegistry struct {
	mu       sync.RWMutex
	order    []string
	folders  map[string]domain.PersonFolder
	corrupt  map[string]bool
	writeErr error
}

// NewPersonRegistry creates a new in-memory person registry.
func NewPersonRegistry() *PersonRegistry {
	return &PersonRegistry{
		folders: make(map[string]domain.PersonFolder),
		corrupt: make(map[string]bool),
	}
}

// AddCorrupt registers a folder whose metadata cannot be read.
func (r *PersonRegistry) AddCorrupt(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[id]; !ok && !r.corrupt[id] {
		r.order = append(r.order, id)
	}
	delete(r.folders, id)
	r.corrupt[id] = true
}

// FailWrites makes every later Create and Save return err. Pass nil to clear.
func (r *PersonRegistry) FailWrites(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeErr = err
}

// List returns folder IDs in creation order.
func (r *PersonRegistry) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.order...), nil
}

// Get returns a copy of the folder metadata.
func (r *PersonRegistry) Get(_ context.Context, id string) (*domain.PersonFolder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.corrupt[id] {
		return nil, fmt.Errorf("person %s: %w", id, domain.ErrRegistryCorrupt)
	}
	f, ok := r.folders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clonePerson(f), nil
}

// Exists reports whether the ID is taken, readable or not.
func (r *PersonRegistry) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.folders[id]
	return ok || r.corrupt[id], nil
}

// Create adds a new folder.
func (r *PersonRegistry) Create(_ context.Context, folder *domain.PersonFolder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	if _, ok := r.folders[folder.ID]; ok || r.corrupt[folder.ID] {
		return domain.ErrAlreadyExists
	}
	r.order = append(r.order, folder.ID)
	r.folders[folder.ID] = *clonePerson(*folder)
	return nil
}

// Save overwrites an existing folder.
func (r *PersonRegistry) Save(_ context.Context, folder *domain.PersonFolder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	if _, ok := r.folders[folder.ID]; !ok {
		return domain.ErrNotFound
	}
	r.folders[folder.ID] = *clonePerson(*folder)
	return nil
}

func clonePerson(f domain.PersonFolder) *domain.PersonFolder {
	f.DocNumbers = append([]string{}, f.DocNumbers...)
	return &f
}
