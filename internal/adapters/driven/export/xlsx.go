// Package export renders the document index and person registry as an
// Excel workbook.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
)

// Ensure XLSXExporter implements the interface.
var _ driven.Exporter = (*XLSXExporter)(nil)

// Sheet names.
const (
	DocumentsSheet = "Documents"
	PersonsSheet   = "Persons"
)

const dateLayout = "2006-01-02 15:04"

// XLSXExporter writes a two-sheet workbook.
type XLSXExporter struct{}

// NewXLSXExporter creates an exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Export writes the Documents and Persons sheets to w.
func (e *XLSXExporter) Export(
	_ context.Context, w io.Writer, docs []domain.DocumentRecord, persons []domain.PersonFolder,
) error {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with Sheet1; rename it rather than leave it empty.
	if err := f.SetSheetName(f.GetSheetName(0), DocumentsSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	if _, err := f.NewSheet(PersonsSheet); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	if err := writeDocuments(f, docs); err != nil {
		return err
	}
	if err := writePersons(f, persons); err != nil {
		return err
	}

	idx, _ := f.GetSheetIndex(DocumentsSheet)
	f.SetActiveSheet(idx)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeDocuments(f *excelize.File, docs []domain.DocumentRecord) error {
	headers := []string{
		"File Name", "Person", "Name", "Document Type", "Document Number",
		"Date of Birth", "Gender", "Processed", "File Path", "Checksum",
	}
	if err := writeRow(f, DocumentsSheet, 1, toAny(headers)); err != nil {
		return err
	}

	for i, d := range docs {
		row := []any{
			d.FileName, d.PersonFolder, d.Name, d.DocType.String(), d.DocNumber,
			d.DOB, d.Gender, d.ProcessedDate.Local().Format(dateLayout), d.FilePath, d.Checksum,
		}
		if err := writeRow(f, DocumentsSheet, i+2, row); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(DocumentsSheet, "A", "A", 24)
	_ = f.SetColWidth(DocumentsSheet, "B", "C", 28)
	_ = f.SetColWidth(DocumentsSheet, "D", "E", 20)
	_ = f.SetColWidth(DocumentsSheet, "F", "H", 16)
	_ = f.SetColWidth(DocumentsSheet, "I", "I", 60)
	_ = f.SetColWidth(DocumentsSheet, "J", "J", 18)
	return f.SetPanes(DocumentsSheet, frozenHeader())
}

func writePersons(f *excelize.File, persons []domain.PersonFolder) error {
	headers := []string{"Folder", "Name", "Date of Birth", "Document Numbers", "Created"}
	if err := writeRow(f, PersonsSheet, 1, toAny(headers)); err != nil {
		return err
	}

	for i, p := range persons {
		row := []any{
			p.ID, p.DisplayName, p.DOB, strings.Join(p.DocNumbers, ", "),
			p.CreatedAt.Local().Format(dateLayout),
		}
		if err := writeRow(f, PersonsSheet, i+2, row); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(PersonsSheet, "A", "B", 28)
	_ = f.SetColWidth(PersonsSheet, "C", "C", 16)
	_ = f.SetColWidth(PersonsSheet, "D", "D", 40)
	_ = f.SetColWidth(PersonsSheet, "E", "E", 18)
	return f.SetPanes(PersonsSheet, frozenHeader())
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func frozenHeader() *excelize.Panes {
	return &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
