package blobstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := t.Context()

	in := []byte("hello")
	require.NoError(t, store.Put(ctx, "a/one", in))
	require.NoError(t, store.Put(ctx, "a/two", []byte("world")))
	require.NoError(t, store.Put(ctx, "b/three", nil))
	in[0] = 'j'

	blob, err := store.Open(ctx, "a/one")
	require.NoError(t, err)
	buf := make([]byte, 5)
	_, err = blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf), "Put must copy")
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/one", "a/two"}, names)

	require.NoError(t, store.Delete(ctx, "a/one"))
	_, err = store.Open(ctx, "a/one")
	assert.ErrorIs(t, err, ErrNotFound)
}
