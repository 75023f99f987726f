package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

// clearKeyEnv keeps the host's API keys out of the settings under test.
func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DOCFILER_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "DOCFILER_STORAGE_ROOT"} {
		t.Setenv(k, "")
	}
}

func TestSettingsCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range settingsCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["show"])
	assert.True(t, names["set"])
	assert.True(t, names["unset"])
	assert.True(t, names["check"])
}

func TestSettingsUnset(t *testing.T) {
	clearKeyEnv(t)
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("settings", "set", "extraction.model", "gemini-1.5-pro")
	require.NoError(t, err)

	out, err := execute("settings", "unset", "extraction.model")
	require.NoError(t, err)
	assert.Contains(t, out, "extraction.model = gemini-2.0-flash (default)")
	_, stored := currentEnv.config.Get("extraction.model")
	assert.False(t, stored)

	_, err = execute("settings", "unset", "search.mode")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsShow_Unconfigured(t *testing.T) {
	clearKeyEnv(t)
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "storage.index_backend")
	assert.Contains(t, out, "gemini-2.0-flash")
	assert.Contains(t, out, "(not set)")
	assert.Contains(t, out, "Google Gemini (cloud)")
	assert.Contains(t, out, "Warning:")
}

func TestSettingsSet_MasksAPIKey(t *testing.T) {
	clearKeyEnv(t)
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("settings", "set", "extraction.api_key", "AIzaSyD-1234567890abcd")
	require.NoError(t, err)
	assert.Contains(t, out, "extraction.api_key = AIza...abcd")
	assert.NotContains(t, out, "1234567890")

	out, err = execute("settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid.")
	assert.NotContains(t, out, "1234567890")
}

func TestSettingsSet_Backend(t *testing.T) {
	clearKeyEnv(t)
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("settings", "set", "storage.index_backend", "sqlite")

	require.NoError(t, err)
	assert.Contains(t, out, "storage.index_backend = sqlite")
	assert.Equal(t, "sqlite", currentEnv.config.GetString("storage.index_backend"))
}

func TestSettingsSet_Rejects(t *testing.T) {
	clearKeyEnv(t)
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("settings", "set", "storage.index_backend", "postgres")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = execute("settings", "set", "nope", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute("settings", "set", "extraction.timeout_seconds", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSet_RequiresTwoArgs(t *testing.T) {
	_, err := execute("settings", "set", "storage.root")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestSettingsCheck(t *testing.T) {
	clearKeyEnv(t)
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("settings", "check")
	assert.ErrorIs(t, err, domain.ErrExtractorUnavailable)

	require.NoError(t, currentEnv.config.Set("extraction.api_key", "AIzaSyD-1234567890abcd"))
	out, err := execute("settings", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Validating configuration... OK")

	currentEnv.checkErr = errCheckFailed
	out, err = execute("settings", "check")
	assert.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "FAILED")
}
