// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem under ~/.docfiler.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable extraction prompts seeded from built-in defaults
package file
