package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// DocType identifies the kind of identity document.
type DocType string

// Known document types.
const (
	DocTypeAadhaar        DocType = "AADHAAR"
	DocTypePAN            DocType = "PAN"
	DocTypeDrivingLicense DocType = "DRIVING_LICENSE"
	DocTypePassport       DocType = "PASSPORT"
	DocTypeVoterID        DocType = "VOTER_ID"
	DocTypeUnknown        DocType = "UNKNOWN"
)

// AllDocTypes returns every recognised document type, UNKNOWN last.
func AllDocTypes() []DocType {
	return []DocType{
		DocTypeAadhaar,
		DocTypePAN,
		DocTypeDrivingLicense,
		DocTypePassport,
		DocTypeVoterID,
		DocTypeUnknown,
	}
}

// ParseDocType maps a raw extracted value onto a DocType.
// Separators and case are ignored; anything unrecognised becomes UNKNOWN.
func ParseDocType(raw string) DocType {
	key := strings.ToUpper(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)

	switch key {
	case "AADHAAR", "AADHAR":
		return DocTypeAadhaar
	case "PAN", "PAN_CARD":
		return DocTypePAN
	case "DRIVING_LICENSE", "DRIVING_LICENCE", "DL":
		return DocTypeDrivingLicense
	case "PASSPORT":
		return DocTypePassport
	case "VOTER_ID", "VOTERID", "EPIC":
		return DocTypeVoterID
	default:
		return DocTypeUnknown
	}
}

// IsValid returns true if the doc type is one of the known values.
func (t DocType) IsValid() bool {
	for _, known := range AllDocTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (t DocType) String() string {
	return string(t)
}

// Gender values as reported by extraction. Empty means absent.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// ParseGender normalises an extracted gender value. Unrecognised values
// yield the empty string.
func ParseGender(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m":
		return GenderMale
	case "female", "f":
		return GenderFemale
	default:
		return ""
	}
}

// DocumentRecord is the index entry for one processed file.
// It is created once the document has been extracted, resolved and filed,
// and is never mutated afterwards. Empty optional fields mean "absent".
type DocumentRecord struct {
	// FileName is the base name of the source file. It keys in-place updates.
	FileName string `json:"fileName"`

	// SourcePath is the original location of the file.
	SourcePath string `json:"sourcePath,omitempty"`

	// FilePath is the copy inside the assigned person folder.
	FilePath string `json:"filePath"`

	// PersonFolder is the ID of the assigned PersonFolder (non-owning).
	PersonFolder string `json:"personFolder"`

	// ProcessedDate is when the record was created.
	ProcessedDate time.Time `json:"processedDate"`

	// DocType is the document kind.
	DocType DocType `json:"docType"`

	// Name is the holder's name, upper-case.
	Name string `json:"name"`

	// DocNumber is the document number, if extracted.
	DocNumber string `json:"docNumber,omitempty"`

	// DOB is the date of birth in DD/MM/YYYY form, if extracted.
	DOB string `json:"dob,omitempty"`

	// Gender is Male or Female, if extracted.
	Gender string `json:"gender,omitempty"`

	// Checksum is the xxhash64 of the source bytes, hex encoded.
	Checksum string `json:"checksum,omitempty"`
}

// SameDocument reports whether the record has the given duplicate identity.
// Absent doc numbers compare equal to each other.
func (r *DocumentRecord) SameDocument(name string, docType DocType, docNumber string) bool {
	return r.Name == name && r.DocType == docType && r.DocNumber == docNumber
}

// Matches reports whether query is a case-insensitive substring of the
// record's name, doc type or doc number.
func (r *DocumentRecord) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(string(r.DocType)), q) ||
		(r.DocNumber != "" && strings.Contains(strings.ToLower(r.DocNumber), q))
}

// supportedImageExtensions are the file types accepted for processing.
var supportedImageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

// IsSupportedImage reports whether path has an accepted image extension.
func IsSupportedImage(path string) bool {
	_, ok := supportedImageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
