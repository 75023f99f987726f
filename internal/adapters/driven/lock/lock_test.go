package lock

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLock_Exclusive(t *testing.T) {
	root := t.TempDir()

	first, err := New(root)
	require.NoError(t, err)
	second, err := New(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, FileName), first.Path())

	ok, err := first.TryLock()
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = second.TryLock()
	require.NoError(t, err)
	assert.False(t, ok, "second holder must be rejected")

	require.NoError(t, first.Unlock())

	ok, err = second.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, second.Unlock())
}

func TestNew_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Processed Documents")

	l, err := New(root)
	require.NoError(t, err)
	assert.DirExists(t, root)

	ok, err := l.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, l.Unlock())
}
