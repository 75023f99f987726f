// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - IndexStore: Ordered collection of processed documents (JSON file or SQLite)
//   - PersonRegistry: Person folders and their metadata
//   - DocumentFiler: Copies files into person folders and the review area
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Extractor: Vision/LLM extraction. Without it, processing is disabled
//     but search and listing still work.
//   - ProcessLock: Cross-process writer lock. Without it, only the
//     in-process single-batch guard applies.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
