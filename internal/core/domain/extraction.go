package domain

import (
	"fmt"
	"strings"
)

// ExtractedFields is the structured result of reading a document image.
// Empty optional fields mean the extractor did not find them.
type ExtractedFields struct {
	DocType   DocType
	Name      string
	DocNumber string
	DOB       string
	Gender    string
}

// Validate checks that the required fields are present.
// The returned error wraps ErrMissingField.
func (f *ExtractedFields) Validate() error {
	var missing []string
	if strings.TrimSpace(f.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(string(f.DocType)) == "" {
		missing = append(missing, "docType")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

// Clean trims every field, upper-cases the name and maps doc type and
// gender onto their canonical values.
func (f *ExtractedFields) Clean() {
	f.Name = strings.ToUpper(strings.TrimSpace(f.Name))
	if strings.TrimSpace(string(f.DocType)) != "" {
		f.DocType = ParseDocType(string(f.DocType))
	}
	f.DocNumber = strings.TrimSpace(f.DocNumber)
	f.DOB = strings.TrimSpace(f.DOB)
	f.Gender = ParseGender(f.Gender)
}
