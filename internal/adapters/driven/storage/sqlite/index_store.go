package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
)

// indexStore implements driven.IndexStore.
type indexStore struct {
	store *Store
}

var _ driven.IndexStore = (*indexStore)(nil)

const documentColumns = `file_name, source_path, file_path, person_folder, processed_date,
	doc_type, name, doc_number, dob, gender, checksum`

const upsertDocument = `
	INSERT INTO documents (` + documentColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(file_name) DO UPDATE SET
		source_path = excluded.source_path,
		file_path = excluded.file_path,
		person_folder = excluded.person_folder,
		processed_date = excluded.processed_date,
		doc_type = excluded.doc_type,
		name = excluded.name,
		doc_number = excluded.doc_number,
		dob = excluded.dob,
		gender = excluded.gender,
		checksum = excluded.checksum
`

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Load returns every record in insertion order.
func (s *indexStore) Load(ctx context.Context) ([]domain.DocumentRecord, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	recs := []domain.DocumentRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return recs, nil
}

// AppendOrUpdate upserts by file name; an updated row keeps its position.
func (s *indexStore) AppendOrUpdate(ctx context.Context, rec domain.DocumentRecord) error {
	return upsert(ctx, s.store.db, rec)
}

// Save replaces the whole collection in one transaction.
func (s *indexStore) Save(ctx context.Context, recs []domain.DocumentRecord) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clearing documents: %w", err)
	}
	for _, rec := range recs {
		if err := upsert(ctx, tx, rec); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing documents: %w", err)
	}
	return nil
}

// FindDuplicate returns the earliest record with the same identity tuple.
func (s *indexStore) FindDuplicate(
	ctx context.Context, name string, docType domain.DocType, docNumber string,
) (*domain.DocumentRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE name = ? AND doc_type = ? AND doc_number = ?
		ORDER BY seq LIMIT 1
	`, name, string(docType), docNumber)

	rec, err := scanRecord(row)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Close closes the underlying database.
func (s *indexStore) Close() error {
	return s.store.Close()
}

func upsert(ctx context.Context, db execer, rec domain.DocumentRecord) error {
	_, err := db.ExecContext(ctx, upsertDocument,
		rec.FileName, rec.SourcePath, rec.FilePath, rec.PersonFolder,
		rec.ProcessedDate.UTC().Format(time.RFC3339Nano),
		string(rec.DocType), rec.Name, rec.DocNumber, rec.DOB, rec.Gender, rec.Checksum)
	if err != nil {
		return fmt.Errorf("saving document %s: %w", rec.FileName, err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.DocumentRecord, error) {
	var rec domain.DocumentRecord
	var docType, processed string

	if err := row.Scan(&rec.FileName, &rec.SourcePath, &rec.FilePath, &rec.PersonFolder,
		&processed, &docType, &rec.Name, &rec.DocNumber, &rec.DOB, &rec.Gender,
		&rec.Checksum); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	rec.DocType = domain.DocType(docType)
	t, err := time.Parse(time.RFC3339Nano, processed)
	if err != nil {
		return nil, fmt.Errorf("parsing processed date for %s: %w", rec.FileName, err)
	}
	rec.ProcessedDate = t
	return &rec, nil
}
