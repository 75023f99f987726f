package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
	"github.com/custodia-labs/docfiler/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptDirName is the prompt directory inside the configuration directory.
const PromptDirName = "prompts"

var builtinPrompts = map[string]string{
	driven.PromptExtraction: domain.DefaultExtractionPrompt,
}

// DefaultPrompt returns the built-in prompt for name, or "" if unknown.
func DefaultPrompt(name string) string {
	return builtinPrompts[name]
}

// PromptStore reads prompts from <dir>/<name>.txt. The first Load of a
// built-in prompt writes the default text there so it can be edited.
// Files are read on every Load; edits apply to the next extractor built.
type PromptStore struct {
	dir string
}

// NewPromptStore creates a prompt store rooted at dir. An empty dir means
// ~/.docfiler/prompts. Nothing is touched on disk until Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		configDir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(configDir, PromptDirName)
	}
	return &PromptStore{dir: dir}, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the prompt for name. A missing or blank file yields the
// built-in prompt; an unreadable one is an error so the caller can decide.
func (s *PromptStore) Load(name string) (string, error) {
	builtin, known := builtinPrompts[name]
	path := filepath.Join(s.dir, name+".txt")

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if prompt := strings.TrimSpace(string(data)); prompt != "" {
			return prompt, nil
		}
		if !known {
			return "", fmt.Errorf("%w: prompt %q is empty", domain.ErrInvalidInput, name)
		}
		return builtin, nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	case !known:
		return "", fmt.Errorf("%w: prompt %q", domain.ErrNotFound, name)
	}

	if err := seedPrompt(path, builtin); err != nil {
		logger.Debug("could not write default prompt %s: %v", path, err)
	}
	return builtin, nil
}

func seedPrompt(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
