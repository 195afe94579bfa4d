package kvstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/drafter/kvstore"
)

func TestFileStore_ListMissingRoot(t *testing.T) {
	store := kvstore.NewFileStore(filepath.Join(t.TempDir(), "nonexistent"))

	keys, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFileStore_ListSkipsHiddenAndDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "visible"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".tmp-visible-123"), []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(root, "nested"), 0o700))

	keys, err := kvstore.NewFileStore(root).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"visible"}, keys)
}

func TestFileStore_SaveCreatesRootAndLeavesNoTempFiles(t *testing.T) {
	root := filepath.Join(t.TempDir(), "state", "drafter")
	store := kvstore.NewFileStore(root)

	require.NoError(t, store.Save(context.Background(), kvstore.Entry{Key: "ppg_sessions", Value: []byte("[]")}))

	dirEntries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, dirEntries, 1)
	assert.Equal(t, "ppg_sessions", dirEntries[0].Name())

	info, err := os.Stat(filepath.Join(root, "ppg_sessions"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := kvstore.NewFileStore(t.TempDir()).Save(ctx, kvstore.Entry{Key: "k", Value: []byte("v")})
	assert.ErrorIs(t, err, context.Canceled)
}
