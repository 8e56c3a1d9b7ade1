package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDisk(t *testing.T) {
	ctx := context.Background()
	d, err := NewLocal(t.TempDir(), "http://cdn.test/storage/")
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "products/1/cover.png", strings.NewReader("png-bytes"), "image/png"))
	assert.True(t, d.Exists(ctx, "products/1/cover.png"))

	data, err := d.Get(ctx, "products/1/cover.png")
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	assert.Equal(t, "http://cdn.test/storage/products/1/cover.png", d.URL("products/1/cover.png"))

	require.NoError(t, d.Delete(ctx, "products/1/cover.png"))
	assert.False(t, d.Exists(ctx, "products/1/cover.png"))
	require.NoError(t, d.Delete(ctx, "products/1/cover.png"), "deleting a missing file is fine")

	_, err = d.Get(ctx, "products/1/cover.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalDiskStaysUnderRoot(t *testing.T) {
	root := t.TempDir()
	d, err := NewLocal(root, "http://cdn.test")
	require.NoError(t, err)

	full, err := d.abs("../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(full, d.root))

	_, err = d.abs("/")
	assert.Error(t, err)
}
