package driven

import (
	"context"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

// PersonRegistry persists person folders and their metadata.
// The registry is re-read on every call so each resolution sees the
// result of the previous one.
type PersonRegistry interface {
	// List returns the IDs of every candidate person folder in the
	// registry's stable enumeration order. Reserved entries (the review
	// area, hidden entries) are not listed.
	List(ctx context.Context) ([]string, error)

	// Get reads the metadata of one folder. A folder that exists but whose
	// metadata is missing or unreadable returns an error wrapping
	// domain.ErrRegistryCorrupt; an unknown ID returns domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.PersonFolder, error)

	// Exists reports whether a folder with the ID is present, readable or not.
	Exists(ctx context.Context, id string) (bool, error)

	// Create makes a new folder and writes its metadata.
	// Returns domain.ErrAlreadyExists if the ID is taken.
	Create(ctx context.Context, folder *domain.PersonFolder) error

	// Save overwrites the metadata of an existing folder.
	Save(ctx context.Context, folder *domain.PersonFolder) error
}
