package memogo

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/memogo/kvstore"
)

func TestRemote_MirroredOnSave(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()

	c, err := New(ctx, "mirrored",
		WithDirectory(t.TempDir()), WithLogger(NoopLogger()), WithRemote(store))
	require.NoError(t, err)

	f := NewFunc(c, "op", func(_ context.Context, _ ...any) (int, error) { return 1, nil })
	_, err = f.Call(ctx)
	require.NoError(t, err)

	doc, err := store.Get(ctx, "mirrored")
	require.NoError(t, err)
	assert.Contains(t, string(doc), `"op()"`)

	// The remote TTL is the cache TTL as a day count.
	assert.InDelta(t, 999, store.TTLDays("mirrored"), 0.01)
	require.NoError(t, c.Close())
}

func TestRemote_LocalLoadBackfills(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// Populate the local tier without any remote.
	c1, err := New(ctx, "backfill", WithDirectory(dir), WithLogger(NoopLogger()))
	require.NoError(t, err)
	f := NewFunc(c1, "op", func(_ context.Context, _ ...any) (int, error) { return 1, nil })
	_, err = f.Call(ctx)
	require.NoError(t, err)
	require.NoError(t, c1.Close())

	// A fresh remote store receives the snapshot during construction.
	store := kvstore.NewMemoryStore()
	c2, err := New(ctx, "backfill",
		WithDirectory(dir), WithLogger(NoopLogger()), WithRemote(store))
	require.NoError(t, err)
	defer func() { _ = c2.Close() }()

	assert.Equal(t, 1, store.PutCount(), "successful local load must backfill the remote tier")
	_, err = store.Get(ctx, "backfill")
	assert.NoError(t, err)
}

func TestRemote_LoadWhenLocalMissing(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()

	c1, err := New(ctx, "roaming",
		WithDirectory(t.TempDir()), WithLogger(NoopLogger()), WithRemote(store))
	require.NoError(t, err)
	f1 := NewFunc(c1, "op", func(_ context.Context, args ...any) (string, error) {
		return "computed-" + args[0].(string), nil
	})
	want, err := f1.Call(ctx, "x")
	require.NoError(t, err)
	require.NoError(t, c1.Close())

	// New host: no local file, same remote store.
	c2, err := New(ctx, "roaming",
		WithDirectory(t.TempDir()), WithLogger(NoopLogger()), WithRemote(store))
	require.NoError(t, err)
	defer func() { _ = c2.Close() }()

	f2 := NewFunc(c2, "op", func(_ context.Context, _ ...any) (string, error) {
		t.Fatal("must be served from the remote snapshot")
		return "", nil
	})
	got, err := f2.Call(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRemote_CompressionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	big := strings.Repeat("compressible ", 12_000) // ~150KB serialized

	c1, err := New(ctx, "bulky",
		WithDirectory(t.TempDir()), WithLogger(NoopLogger()), WithRemote(store))
	require.NoError(t, err)
	f1 := NewFunc(c1, "blob", func(_ context.Context, _ ...any) (string, error) {
		return big, nil
	})
	_, err = f1.Call(ctx)
	require.NoError(t, err)
	require.NoError(t, c1.Close())

	// The stored remote document is the compression envelope.
	doc, err := store.Get(ctx, "bulky")
	require.NoError(t, err)
	assert.Contains(t, string(doc), `"_compressed":true`)
	assert.Less(t, len(doc), len(big))

	// A fresh host reproduces the original value through the envelope.
	c2, err := New(ctx, "bulky",
		WithDirectory(t.TempDir()), WithLogger(NoopLogger()), WithRemote(store))
	require.NoError(t, err)
	defer func() { _ = c2.Close() }()

	f2 := NewFunc(c2, "blob", func(_ context.Context, _ ...any) (string, error) {
		t.Fatal("must be served from the remote snapshot")
		return "", nil
	})
	got, err := f2.Call(ctx)
	require.NoError(t, err)
	assert.Equal(t, big, got)
}

func TestRemote_OversizedPayloadSkipped(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()

	// Random data does not compress below the item ceiling.
	raw := make([]byte, 600_000)
	_, err := rand.Read(raw)
	require.NoError(t, err)
	huge := base64.StdEncoding.EncodeToString(raw)

	c, err := New(ctx, "oversized",
		WithDirectory(t.TempDir()), WithLogger(NoopLogger()), WithRemote(store),
		WithClearOnInit(true))
	require.NoError(t, err)

	f := NewFunc(c, "blob", func(_ context.Context, _ ...any) (string, error) {
		return huge, nil
	})
	got, err := f.Call(ctx)
	require.NoError(t, err, "local tier still succeeds")
	assert.Equal(t, huge, got)

	assert.Equal(t, 0, store.PutCount(), "oversized payloads must never reach the remote tier")
	require.NoError(t, c.Close())
}

func TestRemote_FullClearDeletesDocument(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()

	c, err := New(ctx, "cleared",
		WithDirectory(t.TempDir()), WithLogger(NoopLogger()), WithRemote(store))
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	f := NewFunc(c, "op", func(_ context.Context, _ ...any) (int, error) { return 1, nil })
	_, err = f.Call(ctx)
	require.NoError(t, err)
	_, err = store.Get(ctx, "cleared")
	require.NoError(t, err)

	// A scoped clear keeps the remote document.
	c.Clear(ctx, "other-op")
	_, err = store.Get(ctx, "cleared")
	require.NoError(t, err)

	// A full clear removes it.
	c.Clear(ctx, "")
	_, err = store.Get(ctx, "cleared")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestRemote_FlushOnClose(t *testing.T) {
	ctx := context.Background()

	t.Run("Default", func(t *testing.T) {
		store := kvstore.NewMemoryStore()
		c, err := New(ctx, "no-flush",
			WithDirectory(t.TempDir()), WithLogger(NoopLogger()), WithRemote(store),
			WithClearOnInit(true))
		require.NoError(t, err)
		require.NoError(t, c.Close())
		assert.Equal(t, 0, store.PutCount())
	})

	t.Run("Enabled", func(t *testing.T) {
		store := kvstore.NewMemoryStore()
		c, err := New(ctx, "flush",
			WithDirectory(t.TempDir()), WithLogger(NoopLogger()), WithRemote(store),
			WithClearOnInit(true), WithFlushRemoteOnClose(true))
		require.NoError(t, err)
		require.NoError(t, c.Close())
		assert.Equal(t, 1, store.PutCount())
	})
}

func TestListRemoteKeys(t *testing.T) {
	ctx := context.Background()

	t.Run("NoRemote", func(t *testing.T) {
		c := newTestCache(t)
		page, err := c.ListRemoteKeys(ctx, 10, "")
		require.NoError(t, err)
		assert.Empty(t, page.Keys)
		assert.Empty(t, page.NextCursor)
	})

	t.Run("PassThrough", func(t *testing.T) {
		store := kvstore.NewMemoryStore()
		require.NoError(t, store.Put(ctx, "other-a", []byte(`{}`), 1))
		require.NoError(t, store.Put(ctx, "other-b", []byte(`{}`), 1))

		c, err := New(ctx, "lister",
			WithDirectory(t.TempDir()), WithLogger(NoopLogger()), WithRemote(store),
			WithClearOnInit(true))
		require.NoError(t, err)
		defer func() { _ = c.Close() }()

		page, err := c.ListRemoteKeys(ctx, 1, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"other-a"}, page.Keys)
		require.Equal(t, "other-a", page.NextCursor)

		page, err = c.ListRemoteKeys(ctx, 1, page.NextCursor)
		require.NoError(t, err)
		assert.Equal(t, []string{"other-b"}, page.Keys)
	})
}
