// Package domain defines the core business entities for docfiler.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentRecord: A filed document and the fields extracted from it
//   - PersonFolder: The grouping unit for one real-world individual
//   - ExtractedFields: The raw result of document extraction
//   - BatchEvent / BatchSummary: Progress reporting for a processing run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
