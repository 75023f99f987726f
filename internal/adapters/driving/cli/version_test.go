package cli

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion_PrintsBuildVersion(t *testing.T) {
	saved := version
	t.Cleanup(func() { version = saved })
	SetVersion("1.4.2")

	out, err := execute("version")

	require.NoError(t, err)
	assert.Contains(t, out, "docfiler version 1.4.2")
	assert.Contains(t, out, runtime.Version())
	assert.Contains(t, out, "MCP server 0.1.0")
}

func TestVersion_EmptyKeepsCurrent(t *testing.T) {
	saved := version
	t.Cleanup(func() { version = saved })
	version = "dev"

	SetVersion("")

	out, err := execute("version")
	require.NoError(t, err)
	assert.Contains(t, out, "docfiler version dev")
}

func TestVersion_RejectsArgs(t *testing.T) {
	_, err := execute("version", "extra")
	assert.Error(t, err)
}
