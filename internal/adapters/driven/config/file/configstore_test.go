package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_EmptyDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), store.Path())
	assert.Empty(t, store.Keys())
	assert.NoFileExists(t, store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ConfigDirName, ConfigFileName), store.Path())
	assert.DirExists(t, filepath.Join(home, ConfigDirName))
}

func TestNewConfigStore_CreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("storage.root", "/data"))

	assert.FileExists(t, store.Path())
}

func TestNewConfigStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("[[[not toml"), 0o600))

	_, err := NewConfigStore(dir)
	assert.ErrorContains(t, err, "parse")
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("extraction.provider", "gemini"))
	require.NoError(t, store.Set("extraction.timeout_seconds", 45))
	require.NoError(t, store.Set("extraction.requests_per_minute", " 30 "))

	assert.Equal(t, "gemini", store.GetString("extraction.provider"))
	assert.Equal(t, 45, store.GetInt("extraction.timeout_seconds"))
	assert.Equal(t, 30, store.GetInt("extraction.requests_per_minute"))

	assert.Empty(t, store.GetString("extraction.timeout_seconds"))
	assert.Zero(t, store.GetInt("extraction.provider"))
	assert.Empty(t, store.GetString("missing"))
	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_Unset(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("extraction.model", "gpt-4o"))
	require.NoError(t, store.Set("storage.root", "/data"))
	require.NoError(t, store.Unset("extraction.model"))
	require.NoError(t, store.Unset("never.set"))

	assert.Equal(t, []string{"storage.root"}, store.Keys())

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	_, ok := reopened.Get("extraction.model")
	assert.False(t, ok)
}

func TestConfigStore_WritesTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("storage.index_backend", "sqlite"))
	require.NoError(t, store.Set("extraction.provider", "openai"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[storage]")
	assert.Contains(t, string(data), "[extraction]")
	assert.NotContains(t, string(data), "extraction.provider")
}

func TestConfigStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("storage.root", "/srv/documents"))
	require.NoError(t, store.Set("extraction.timeout_seconds", 90))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "/srv/documents", reopened.GetString("storage.root"))
	assert.Equal(t, 90, reopened.GetInt("extraction.timeout_seconds"))
	assert.Equal(t, []string{"extraction.timeout_seconds", "storage.root"}, reopened.Keys())
}

func TestConfigStore_HandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[storage]
root = "/mnt/scans"
index_backend = "json"

[extraction]
provider = "openai"
base_url = "http://localhost:1234/v1"
requests_per_minute = 12
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "/mnt/scans", store.GetString("storage.root"))
	assert.Equal(t, "openai", store.GetString("extraction.provider"))
	assert.Equal(t, "http://localhost:1234/v1", store.GetString("extraction.base_url"))
	assert.Equal(t, 12, store.GetInt("extraction.requests_per_minute"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("extraction.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigStore_FailedWriteKeepsValues(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("storage.root", "/data"))

	// A directory in place of the file makes the rename fail.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(store.Path(), "x"), nil, 0o600))

	assert.Error(t, store.Set("storage.root", "/other"))
	assert.Equal(t, "/data", store.GetString("storage.root"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("extraction.timeout_seconds", n+1)
			_ = store.GetInt("extraction.timeout_seconds")
		}(i)
	}
	wg.Wait()

	assert.Positive(t, store.GetInt("extraction.timeout_seconds"))
}

func TestNestAndFlatten(t *testing.T) {
	flat := map[string]any{
		"storage.root":        "/data",
		"extraction.provider": "gemini",
		"top":                 "level",
	}

	tree := nest(flat)

	assert.Equal(t, "level", tree["top"])
	assert.Equal(t, map[string]any{"root": "/data"}, tree["storage"])
	assert.Equal(t, map[string]any{"provider": "gemini"}, tree["extraction"])
	assert.Equal(t, flat, flatten(tree, ""))
}

func TestNest_ValueShadowsTable(t *testing.T) {
	tree := nest(map[string]any{
		"storage":      "plain",
		"storage.root": "/data",
	})

	assert.Equal(t, map[string]any{"storage": "plain"}, tree)
}
