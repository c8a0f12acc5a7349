package minio

import (
	"context"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/memogo/kvstore"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := "localhost:9000"
	accessKey := "minioadmin"
	secretKey := "minioadmin"
	bucket := "test-memogo"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	_, err = client.ListBuckets(ctx)
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		err = client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		require.NoError(t, err)
	}

	store := NewStore(client, bucket, "test-prefix/")
	require.True(t, store.Enabled())

	t.Run("GetMissing", func(t *testing.T) {
		_, err := store.Get(ctx, "does-not-exist")
		assert.ErrorIs(t, err, kvstore.ErrNotFound)
	})

	t.Run("PutGetDelete", func(t *testing.T) {
		doc := []byte(`{"_json_cache_func_cache":{}}`)
		require.NoError(t, store.Put(ctx, "it-doc", doc, 7))

		got, err := store.Get(ctx, "it-doc")
		require.NoError(t, err)
		assert.Equal(t, doc, got)

		require.NoError(t, store.Delete(ctx, "it-doc"))
		_, err = store.Get(ctx, "it-doc")
		assert.ErrorIs(t, err, kvstore.ErrNotFound)
	})

	t.Run("ListKeys", func(t *testing.T) {
		for _, id := range []string{"it-a", "it-b", "it-c"} {
			require.NoError(t, store.Put(ctx, id, []byte(`{}`), 1))
		}
		defer func() {
			for _, id := range []string{"it-a", "it-b", "it-c"} {
				_ = store.Delete(ctx, id)
			}
		}()

		page, err := store.ListKeys(ctx, 2, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"it-a", "it-b"}, page.Keys)
		require.Equal(t, "it-b", page.NextCursor)

		page, err = store.ListKeys(ctx, 2, page.NextCursor)
		require.NoError(t, err)
		assert.Contains(t, page.Keys, "it-c")
	})
}
