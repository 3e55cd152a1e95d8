package connection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// chdirTemp moves the working directory into a fresh temp dir so the default
// database file lookup is hermetic.
func chdirTemp(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(wd))
	})
	return dir
}

func TestMigrateDefaultFileCopies(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(DefaultDBFile, []byte("default data"), 0o644))

	dst := filepath.Join(dir, "custom.db")
	require.NoError(t, migrateDefaultFile(dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "default data", string(got))
}

func TestMigrateDefaultFileKeepsExistingDestination(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(DefaultDBFile, []byte("default data"), 0o644))

	dst := filepath.Join(dir, "custom.db")
	require.NoError(t, os.WriteFile(dst, []byte("existing data"), 0o644))

	require.NoError(t, migrateDefaultFile(dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "existing data", string(got))
}

func TestMigrateDefaultFileMissingSourceIsNoop(t *testing.T) {
	dir := chdirTemp(t)

	dst := filepath.Join(dir, "custom.db")
	require.NoError(t, migrateDefaultFile(dst))

	_, err := os.Stat(dst)
	require.True(t, os.IsNotExist(err))
}
