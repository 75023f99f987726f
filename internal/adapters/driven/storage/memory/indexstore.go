package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore is an in-memory implementation of driven.IndexStore.
type IndexStore struct {
	mu      sync.RWMutex
	records []domain.DocumentRecord
	saveErr error
}

// NewIndexStore creates a new in-memory index store.
func NewIndexStore(records ...domain.DocumentRecord) *IndexStore {
	return &IndexStore{records: append([]domain.DocumentRecord(nil), records...)}
}

// FailSaves makes every later write return err. Pass nil to clear.
func (s *IndexStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// Load returns every record in insertion order.
func (s *IndexStore) Load(_ context.Context) ([]domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.DocumentRecord{}, s.records...), nil
}

// AppendOrUpdate replaces the record with the same file name, or appends it.
func (s *IndexStore) AppendOrUpdate(_ context.Context, rec domain.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	for i := range s.records {
		if s.records[i].FileName == rec.FileName {
			s.records[i] = rec
			return nil
		}
	}
	s.records = append(s.records, rec)
	return nil
}

// Save replaces the whole collection.
func (s *IndexStore) Save(_ context.Context, recs []domain.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records = append([]domain.DocumentRecord{}, recs...)
	return nil
}

// FindDuplicate returns the first record with the same identity tuple.
func (s *IndexStore) FindDuplicate(
	_ context.Context, name string, docType domain.DocType, docNumber string,
) (*domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.records {
		if s.records[i].SameDocument(name, docType, docNumber) {
			rec := s.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

// Close is a no-op for the memory store.
func (s *IndexStore) Close() error {
	return nil
}
