// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The identity resolver and processing service live here: the resolver
// decides which person folder a document belongs to, and the processing
// service drives files through extraction, duplicate detection,
// resolution and filing.
package services
