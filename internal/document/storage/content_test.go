package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMissingContentIsEmpty(t *testing.T) {
	cs := NewContentStore(testPaths(t))
	assert.Equal(t, "", cs.Read("nope"))
}

func TestWriteThenRead(t *testing.T) {
	cs := NewContentStore(testPaths(t))

	require.NoError(t, cs.Write("1", "hello world"))
	assert.Equal(t, "hello world", cs.Read("1"))

	require.NoError(t, cs.Write("1", "replaced"))
	assert.Equal(t, "replaced", cs.Read("1"), "write must fully replace prior bytes")
}

func TestBackupCopiesBytes(t *testing.T) {
	paths := testPaths(t)
	cs := NewContentStore(paths)

	require.NoError(t, cs.Write("1", "original text"))

	backup, err := cs.Backup("1")
	require.NoError(t, err)
	require.NotEmpty(t, backup)
	assert.Equal(t, paths.BackupDir(), filepath.Dir(backup))
	assert.True(t, strings.HasPrefix(filepath.Base(backup), "1_"))

	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "original text", string(data), "backup must be byte-for-byte")
}

func TestBackupOfMissingFileIsNoop(t *testing.T) {
	paths := testPaths(t)
	cs := NewContentStore(paths)

	backup, err := cs.Backup("ghost")
	require.NoError(t, err)
	assert.Empty(t, backup)

	entries, err := os.ReadDir(paths.BackupDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRapidBackupsGetDistinctNames(t *testing.T) {
	cs := NewContentStore(testPaths(t))
	require.NoError(t, cs.Write("1", "v1"))

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		backup, err := cs.Backup("1")
		require.NoError(t, err)
		assert.False(t, seen[backup], "backup name %s reused", backup)
		seen[backup] = true
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	cs := NewContentStore(testPaths(t))

	require.NoError(t, cs.Write("1", "x"))
	require.NoError(t, cs.Remove("1"))
	assert.Equal(t, "", cs.Read("1"))
	assert.NoError(t, cs.Remove("1"), "removing an absent file is not an error")
}
