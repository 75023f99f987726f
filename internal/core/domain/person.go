package domain

import (
	"strings"
	"time"
)

// PersonFolder groups the documents of one real-world individual.
// The ID is unique within the registry. DocNumbers only ever grows and
// DOB keeps the first value seen.
type PersonFolder struct {
	// ID is the folder name: normalised name token plus optional suffix.
	ID string `json:"-"`

	// DisplayName is the normalised name with spaces instead of underscores.
	DisplayName string `json:"name"`

	// DocNumbers holds every document number known for the person,
	// in the order they were first seen.
	DocNumbers []string `json:"docNumbers"`

	// DOB is the first-seen date of birth (DD/MM/YYYY), empty if unknown.
	DOB string `json:"dob,omitempty"`

	// CreatedAt is when the folder was created.
	CreatedAt time.Time `json:"created"`
}

// HasDocNumber reports whether number is already known for the person.
func (p *PersonFolder) HasDocNumber(number string) bool {
	if number == "" {
		return false
	}
	for _, n := range p.DocNumbers {
		if n == number {
			return true
		}
	}
	return false
}

// AddDocNumber records number if it is new. It returns true when the set
// changed and the folder needs to be persisted.
func (p *PersonFolder) AddDocNumber(number string) bool {
	if number == "" || p.HasDocNumber(number) {
		return false
	}
	p.DocNumbers = append(p.DocNumbers, number)
	return true
}

// DisplayNameFor converts a normalised name token (RAHUL_KUMAR) into
// its display form (RAHUL KUMAR).
func DisplayNameFor(normalisedName string) string {
	return strings.ReplaceAll(normalisedName, "_", " ")
}

// BirthYear returns the year component of a DD/MM/YYYY date, or the empty
// string when dob does not have three parts.
func BirthYear(dob string) string {
	parts := strings.Split(dob, "/")
	if len(parts) != 3 {
		return ""
	}
	return strings.TrimSpace(parts[2])
}
