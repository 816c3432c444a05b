package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWalkFiltersAndStrips(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "b.gpg"), "cipher-b")
	writeFile(t, filepath.Join(root, "c.gpg"), "cipher-c")
	writeFile(t, filepath.Join(root, "notes.txt"), "plain")
	writeFile(t, filepath.Join(root, ".git", "d.gpg"), "not an entry")

	files, stats, err := NewWalker(nil).Walk(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(root, "a", "b.gpg"), files[0].SourcePath)
	assert.Equal(t, filepath.Join(root, "a", "b"), files[0].EntryPath)
	assert.Equal(t, filepath.Join(root, "c"), files[1].EntryPath)
	for _, f := range files {
		assert.Len(t, f.HashHex, 64)
		assert.Empty(t, f.Err)
	}

	// .git contents never count as scanned
	assert.Equal(t, uint32(3), stats.Scanned)
	assert.Equal(t, uint32(2), stats.Matched)
	assert.Equal(t, uint32(0), stats.Failed)
}

func TestWalkEmptyRoot(t *testing.T) {
	_, _, err := NewWalker(nil).Walk(context.Background(), "  ")
	assert.Error(t, err)
}

func TestWalkCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.gpg"), "cipher")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewWalker(nil).Walk(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}
