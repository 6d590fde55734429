package assets

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirUpload(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDir(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	url, err := d.Upload(context.Background(), "apples.png", bytes.NewReader([]byte("png-bytes")))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/"))
	require.True(t, strings.HasSuffix(url, ".png"), "extension kept: %s", url)

	data, err := os.ReadFile(filepath.Join(dir, "uploads", strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	require.Equal(t, []byte("png-bytes"), data)
}

func TestDirUpload_DistinctNames(t *testing.T) {
	d, err := NewDir(t.TempDir())
	require.NoError(t, err)

	a, err := d.Upload(context.Background(), "x.png", bytes.NewReader(nil))
	require.NoError(t, err)
	b, err := d.Upload(context.Background(), "x.png", bytes.NewReader(nil))
	require.NoError(t, err)
	require.NotEqual(t, a, b, "same source name must not collide")
}
