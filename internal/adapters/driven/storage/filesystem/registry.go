package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
)

// Ensure PersonRegistry implements the interface.
var _ driven.PersonRegistry = (*PersonRegistry)(nil)

// PersonRegistry stores one directory per person under the storage root,
// each holding a hidden metadata file. Enumeration order is folder name
// order.
type PersonRegistry struct {
	root string
}

// NewPersonRegistry creates a registry rooted at root.
func NewPersonRegistry(root string) *PersonRegistry {
	return &PersonRegistry{root: root}
}

// List returns the person folder names under the root, sorted by name.
func (r *PersonRegistry) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list %s: %w", r.root, err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || reservedName(e.Name()) {
			continue
		}
		ids = append(ids, e.Name())
	}
	return ids, nil
}

// Get reads a folder's metadata file.
func (r *PersonRegistry) Get(_ context.Context, id string) (*domain.PersonFolder, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: person id %q", domain.ErrInvalidInput, id)
	}

	dir := filepath.Join(r.root, id)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("person %s: %w", id, domain.ErrNotFound)
	}

	data, err := os.ReadFile(filepath.Join(dir, PersonMetadataFile))
	if err != nil {
		return nil, fmt.Errorf("read metadata %s: %w: %w", id, domain.ErrRegistryCorrupt, err)
	}

	var f domain.PersonFolder
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w: %w", id, domain.ErrRegistryCorrupt, err)
	}
	f.ID = id
	if f.DocNumbers == nil {
		f.DocNumbers = []string{}
	}
	return &f, nil
}

// Exists reports whether the folder exists, readable or not.
func (r *PersonRegistry) Exists(_ context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, fmt.Errorf("%w: person id %q", domain.ErrInvalidInput, id)
	}
	_, err := os.Stat(filepath.Join(r.root, id))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Create makes the folder and writes its metadata.
func (r *PersonRegistry) Create(_ context.Context, folder *domain.PersonFolder) error {
	if !validID(folder.ID) {
		return fmt.Errorf("%w: person id %q", domain.ErrInvalidInput, folder.ID)
	}
	if err := os.MkdirAll(r.root, 0o755); err != nil {
		return fmt.Errorf("create storage root: %w", err)
	}

	dir := filepath.Join(r.root, folder.ID)
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("person %s: %w", folder.ID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("create person %s: %w", folder.ID, err)
	}
	return r.write(folder)
}

// Save overwrites an existing folder's metadata.
func (r *PersonRegistry) Save(_ context.Context, folder *domain.PersonFolder) error {
	if !validID(folder.ID) {
		return fmt.Errorf("%w: person id %q", domain.ErrInvalidInput, folder.ID)
	}
	if _, err := os.Stat(filepath.Join(r.root, folder.ID)); err != nil {
		return fmt.Errorf("person %s: %w", folder.ID, domain.ErrNotFound)
	}
	return r.write(folder)
}

func (r *PersonRegistry) write(folder *domain.PersonFolder) error {
	path := filepath.Join(r.root, folder.ID, PersonMetadataFile)
	if err := writeJSON(path, folder); err != nil {
		return fmt.Errorf("write metadata %s: %w", folder.ID, err)
	}
	return nil
}

// reservedName reports whether a root entry is excluded from person scans.
func reservedName(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

// validID rejects IDs that would escape the root or name a reserved entry.
func validID(id string) bool {
	return id != "" && !reservedName(id) && !strings.ContainsAny(id, `/\`) && id != ".."
}
