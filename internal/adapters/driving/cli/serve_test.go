package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfiler/internal/adapters/driving/mcp"
)

func TestServeCmd_Flags(t *testing.T) {
	for _, name := range []string{"http", "metrics", "read-only"} {
		flag := serveCmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
	}
	assert.Equal(t, "", serveCmd.Flags().Lookup("http").DefValue)
}

func TestServeCmd_RequiresDocumentService(t *testing.T) {
	SetServices(nil)

	_, err := execute("serve")

	assert.ErrorIs(t, err, mcp.ErrMissingDocumentService)
}

func TestServeCmd_MetricsRequireHandler(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("serve", "--metrics", "127.0.0.1:0")

	assert.EqualError(t, err, "metrics not configured")
}

func TestWatchCmd_MissingDir(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("watch", "/definitely/not/here")

	assert.Error(t, err)
}
