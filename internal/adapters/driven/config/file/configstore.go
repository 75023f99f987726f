package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

const (
	// ConfigDirName is the per-user configuration directory under $HOME.
	ConfigDirName = ".docfiler"

	// ConfigFileName is the settings file inside the configuration directory.
	ConfigFileName = "config.toml"
)

// ConfigStore keeps settings in <configDir>/config.toml. Keys are held flat
// in dot notation and written back as TOML tables, so "extraction.provider"
// lands under [extraction].
type ConfigStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// DefaultConfigDir returns ~/.docfiler.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ConfigDirName), nil
}

// NewConfigStore opens the settings file in configDir, creating the
// directory if needed. An empty configDir means DefaultConfigDir.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	s := &ConfigStore{path: filepath.Join(configDir, ConfigFileName)}
	values, err := readTOML(s.path)
	if err != nil {
		return nil, err
	}
	s.values = values
	return s, nil
}

// Get returns the raw value stored under key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.values[key]
	return val, ok
}

// GetString returns the value under key if it is a string.
func (s *ConfigStore) GetString(key string) string {
	val, _ := s.Get(key)
	str, _ := val.(string)
	return str
}

// GetInt returns the value under key as an int. TOML decodes integers as
// int64; values set in this process may still be plain ints or strings.
func (s *ConfigStore) GetInt(key string) int {
	val, _ := s.Get(key)
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	}
	return 0
}

// Set stores value under key and rewrites the file.
func (s *ConfigStore) Set(key string, value any) error {
	return s.update(func(values map[string]any) {
		values[key] = value
	})
}

// Unset removes key and rewrites the file.
func (s *ConfigStore) Unset(key string) error {
	return s.update(func(values map[string]any) {
		delete(values, key)
	})
}

// Keys returns every key currently set, sorted.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the settings file path.
func (s *ConfigStore) Path() string {
	return s.path
}

// update applies fn to a copy of the values and only keeps the copy once
// it has been written, so a failed write leaves memory and disk agreeing.
func (s *ConfigStore) update(fn func(map[string]any)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]any, len(s.values)+1)
	for k, v := range s.values {
		next[k] = v
	}
	fn(next)

	if err := writeTOML(s.path, next); err != nil {
		return err
	}
	s.values = next
	return nil
}

func readTOML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return flatten(tree, ""), nil
}

// writeTOML replaces path via a temp file in the same directory. The file
// may hold an API key, so it is only readable by the owner.
func writeTOML(path string, values map[string]any) error {
	data, err := toml.Marshal(nest(values))
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+ConfigFileName+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// flatten turns {"a": {"b": 1}} into {"a.b": 1}.
func flatten(tree map[string]any, prefix string) map[string]any {
	flat := make(map[string]any)
	for key, value := range tree {
		if prefix != "" {
			key = prefix + "." + key
		}
		if table, ok := value.(map[string]any); ok {
			for k, v := range flatten(table, key) {
				flat[k] = v
			}
			continue
		}
		flat[key] = value
	}
	return flat
}

// nest is the inverse of flatten. When a key is both a value and the
// prefix of another key, the first one placed wins; keys are placed in
// sorted order so the outcome is stable.
func nest(flat map[string]any) map[string]any {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tree := make(map[string]any)
	for _, key := range keys {
		parts := strings.Split(key, ".")
		node := tree
		for _, part := range parts[:len(parts)-1] {
			existing, present := node[part]
			if !present {
				child := make(map[string]any)
				node[part] = child
				node = child
				continue
			}
			child, ok := existing.(map[string]any)
			if !ok {
				node = nil
				break
			}
			node = child
		}
		if node == nil {
			continue
		}
		leaf := parts[len(parts)-1]
		if _, taken := node[leaf]; taken {
			continue
		}
		node[leaf] = flat[key]
	}
	return tree
}
