package minio

import (
	"io"
	"os"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/smtgo/blobstore"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}
	bucket := "test-smtgo"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := t.Context()

	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte("das haus ||| the house ||| 0.5")
	require.NoError(t, store.Put(ctx, "phrase-table.txt", data))
	t.Cleanup(func() { _ = store.Delete(ctx, "phrase-table.txt") })

	blob, err := store.Open(ctx, "phrase-table.txt")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 4)
	n, err := blob.ReadAt(ctx, buf, 4)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	assert.Equal(t, "haus", string(buf))

	rc, err := blob.(blobstore.RangeReader).ReadRange(ctx, 13, 9)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "the house", string(part))
	require.NoError(t, rc.Close())
	require.NoError(t, blob.Close())

	all, _, err := blobstore.ReadAll(ctx, store, "phrase-table.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, data, all)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "phrase-table.txt")

	require.NoError(t, store.Delete(ctx, "phrase-table.txt"))
	_, err = store.Open(ctx, "phrase-table.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
