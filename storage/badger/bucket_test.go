package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elonge/venetia-engine/core"
	"github.com/elonge/venetia-engine/storage"
)

func newTestBucketStore(t *testing.T) storage.BucketStore {
	t.Helper()
	bucketStore, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return bucketStore
}

func weekBucket(start time.Time, count int) *core.BucketEmbedding {
	return &core.BucketEmbedding{
		BucketStart: start,
		Granularity: core.GranularityWeek,
		Embedding:   []float32{float32(start.Unix() % 100), 0.5, -0.25},
		ChunkCount:  count,
	}
}

func TestBucketStore_PutAndGet(t *testing.T) {
	store := newTestBucketStore(t)
	ctx := context.Background()

	starts := []time.Time{
		time.Date(1914, 7, 27, 0, 0, 0, 0, time.UTC),
		time.Date(1914, 8, 3, 0, 0, 0, 0, time.UTC),
		time.Date(1914, 8, 10, 0, 0, 0, 0, time.UTC),
	}
	// Insert out of order; reads must come back sorted.
	require.NoError(t, store.PutBuckets(ctx, weekBucket(starts[2], 3), weekBucket(starts[0], 1), weekBucket(starts[1], 2)))

	got, err := store.GetBuckets(ctx, core.GranularityWeek,
		time.Date(1914, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1914, 9, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, bucket := range got {
		assert.True(t, starts[i].Equal(bucket.BucketStart), "bucket %d out of order", i)
		assert.Equal(t, i+1, bucket.ChunkCount)
	}
}

func TestBucketStore_GetRangeBounds(t *testing.T) {
	store := newTestBucketStore(t)
	ctx := context.Background()

	inside := time.Date(1915, 1, 4, 0, 0, 0, 0, time.UTC)
	after := time.Date(1915, 1, 11, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.PutBuckets(ctx, weekBucket(inside, 5), weekBucket(after, 7)))

	t.Run("from is inclusive, to is exclusive", func(t *testing.T) {
		got, err := store.GetBuckets(ctx, core.GranularityWeek, inside, after)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, inside.Equal(got[0].BucketStart))
	})

	t.Run("empty range", func(t *testing.T) {
		got, err := store.GetBuckets(ctx, core.GranularityWeek,
			time.Date(1916, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(1916, 2, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		_, err := store.GetBuckets(ctx, core.GranularityWeek, after, inside)
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	})
}

func TestBucketStore_GranularityIsolation(t *testing.T) {
	store := newTestBucketStore(t)
	ctx := context.Background()

	start := time.Date(1915, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.PutBuckets(ctx, &core.BucketEmbedding{
		BucketStart: start,
		Granularity: core.GranularityMonth,
		Embedding:   []float32{1, 2, 3},
		ChunkCount:  9,
	}))

	got, err := store.GetBuckets(ctx, core.GranularityWeek,
		time.Date(1915, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1916, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = store.GetBuckets(ctx, core.GranularityMonth,
		time.Date(1915, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1916, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 9, got[0].ChunkCount)
}

func TestBucketStore_PutOverwrites(t *testing.T) {
	store := newTestBucketStore(t)
	ctx := context.Background()

	start := time.Date(1914, 7, 27, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.PutBuckets(ctx, weekBucket(start, 1)))
	require.NoError(t, store.PutBuckets(ctx, weekBucket(start, 42)))

	got, err := store.GetBuckets(ctx, core.GranularityWeek, start, start.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 42, got[0].ChunkCount)
}

func TestBucketStore_DeleteBuckets(t *testing.T) {
	store := newTestBucketStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutBuckets(ctx,
		weekBucket(time.Date(1914, 7, 27, 0, 0, 0, 0, time.UTC), 1),
		weekBucket(time.Date(1914, 8, 3, 0, 0, 0, 0, time.UTC), 2),
	))
	require.NoError(t, store.PutBuckets(ctx, &core.BucketEmbedding{
		BucketStart: time.Date(1914, 8, 1, 0, 0, 0, 0, time.UTC),
		Granularity: core.GranularityMonth,
		Embedding:   []float32{0.1},
		ChunkCount:  3,
	}))

	removed, err := store.DeleteBuckets(ctx, core.GranularityWeek)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	// Month buckets untouched.
	got, err := store.GetBuckets(ctx, core.GranularityMonth,
		time.Date(1914, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1915, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, got, 1)

	removed, err = store.DeleteBuckets(ctx, core.GranularityWeek)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
