package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
	"github.com/custodia-labs/docfiler/internal/logger"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// indexFile is the on-disk shape of index.json.
type indexFile struct {
	Documents []domain.DocumentRecord `json:"documents"`
}

// IndexStore keeps the document index in a single JSON file.
// Every call re-reads the file; writes replace it atomically.
type IndexStore struct {
	mu   sync.Mutex
	path string
}

// NewIndexStore creates an index store at <root>/index.json.
func NewIndexStore(root string) *IndexStore {
	return &IndexStore{path: filepath.Join(root, IndexFileName)}
}

// Path returns the index file path.
func (s *IndexStore) Path() string {
	return s.path
}

// Load returns every record in insertion order. A missing or unreadable
// index yields an empty collection.
func (s *IndexStore) Load(_ context.Context) ([]domain.DocumentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		logger.Warn("%v (starting empty)", err)
		return []domain.DocumentRecord{}, nil
	}
	return recs, nil
}

// AppendOrUpdate replaces the record with the same file name, or appends it.
func (s *IndexStore) AppendOrUpdate(_ context.Context, rec domain.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadForWrite()
	if err != nil {
		return err
	}
	replaced := false
	for i := range recs {
		if recs[i].FileName == rec.FileName {
			recs[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		recs = append(recs, rec)
	}
	return s.save(recs)
}

// Save replaces the whole collection.
func (s *IndexStore) Save(_ context.Context, recs []domain.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.loadForWrite(); err != nil {
		return err
	}
	return s.save(recs)
}

// FindDuplicate returns the first record with the same identity tuple.
func (s *IndexStore) FindDuplicate(
	_ context.Context, name string, docType domain.DocType, docNumber string,
) (*domain.DocumentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		logger.Warn("%v (no duplicates checked)", err)
	}
	for _, rec := range recs {
		if rec.SameDocument(name, docType, docNumber) {
			return &rec, nil
		}
	}
	return nil, nil
}

// Close is a no-op; the file is not held open.
func (s *IndexStore) Close() error {
	return nil
}

// errCorruptIndex marks an index file that exists but does not parse.
var errCorruptIndex = errors.New("corrupt index")

func (s *IndexStore) load() ([]domain.DocumentRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.DocumentRecord{}, nil
		}
		return nil, fmt.Errorf("reading index %s: %w", s.path, err)
	}

	var f indexFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w %s: %w", errCorruptIndex, s.path, err)
	}
	if f.Documents == nil {
		return []domain.DocumentRecord{}, nil
	}
	return f.Documents, nil
}

// loadForWrite is load for callers about to replace the file. An
// unparseable index is renamed to index.json.corrupt-<timestamp> so the
// write never destroys it; an unreadable one fails the write.
func (s *IndexStore) loadForWrite() ([]domain.DocumentRecord, error) {
	recs, err := s.load()
	if err == nil {
		return recs, nil
	}
	if !errors.Is(err, errCorruptIndex) {
		return nil, err
	}

	aside := fmt.Sprintf("%s%s%s", s.path, CorruptIndexSuffix, time.Now().UTC().Format("20060102T150405.000000000Z"))
	if rerr := os.Rename(s.path, aside); rerr != nil {
		return nil, fmt.Errorf("%w; set aside: %w", err, rerr)
	}
	logger.Warn("%v; moved to %s, starting a new index", err, filepath.Base(aside))
	return []domain.DocumentRecord{}, nil
}

func (s *IndexStore) save(recs []domain.DocumentRecord) error {
	if recs == nil {
		recs = []domain.DocumentRecord{}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create storage root: %w", err)
	}
	if err := writeJSON(s.path, indexFile{Documents: recs}); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}
