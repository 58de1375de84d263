package attendance

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderArchiver_Archive(t *testing.T) {
	raw := t.TempDir()
	processed := filepath.Join(t.TempDir(), "processed")
	src := filepath.Join(raw, "jan.xls")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0o644))

	a := NewFolderArchiver(processed)
	dest, err := a.Archive(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(processed, "jan.xls"), dest)

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
}

func TestFolderArchiver_NameCollisionGetsTimestamp(t *testing.T) {
	raw := t.TempDir()
	processed := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(processed, "jan.xls"), []byte("old"), 0o644))
	src := filepath.Join(raw, "jan.xls")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))

	a := NewFolderArchiver(processed)
	a.now = func() time.Time { return time.Date(2025, 1, 4, 8, 30, 5, 0, time.UTC) }

	dest, err := a.Archive(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(processed, "jan_20250104_083005.xls"), dest)

	old, err := os.ReadFile(filepath.Join(processed, "jan.xls"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
}

func TestFolderArchiver_Errors(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		_, err := NewFolderArchiver(t.TempDir()).Archive(context.Background(), "/does/not/exist.xls")
		assert.Error(t, err)
	})

	t.Run("no processed folder", func(t *testing.T) {
		_, err := NewFolderArchiver("").Archive(context.Background(), "x.xls")
		assert.Error(t, err)
	})
}
