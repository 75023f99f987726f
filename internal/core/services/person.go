package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
	"github.com/custodia-labs/docfiler/internal/core/ports/driving"
	"github.com/custodia-labs/docfiler/internal/logger"
)

// Ensure PersonService implements the interface.
var _ driving.PersonService = (*PersonService)(nil)

// PersonService answers queries over the person registry.
type PersonService struct {
	registry driven.PersonRegistry
}

// NewPersonService creates a new person service.
func NewPersonService(registry driven.PersonRegistry) *PersonService {
	return &PersonService{registry: registry}
}

// List returns every readable person folder in enumeration order.
func (s *PersonService) List(ctx context.Context) ([]domain.PersonFolder, error) {
	ids, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list person folders: %w", err)
	}

	folders := make([]domain.PersonFolder, 0, len(ids))
	for _, id := range ids {
		f, err := s.registry.Get(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrRegistryCorrupt) || errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Skipping person folder %s: %v", id, err)
				continue
			}
			return nil, fmt.Errorf("read person %s: %w", id, err)
		}
		folders = append(folders, *f)
	}
	return folders, nil
}

// Get returns one person folder.
func (s *PersonService) Get(ctx context.Context, id string) (*domain.PersonFolder, error) {
	f, err := s.registry.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get person %s: %w", id, err)
	}
	return f, nil
}
