package ingestion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elonge/venetia-engine/core"
	"github.com/elonge/venetia-engine/storage"
	badgerstore "github.com/elonge/venetia-engine/storage/badger"
)

func newTestBuilder(t *testing.T) (*BucketBuilder, storage.BucketStore) {
	t.Helper()

	bucketStore, _, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	builder, err := NewBucketBuilder(bucketStore)
	require.NoError(t, err)
	return builder, bucketStore
}

func datedChunk(date time.Time, embedding []float32) *core.Chunk {
	return &core.Chunk{
		Content:   "chunk",
		Source:    "letter",
		Date:      date,
		Embedding: embedding,
	}
}

func TestNewBucketBuilder_Validation(t *testing.T) {
	_, err := NewBucketBuilder(nil)
	assert.ErrorIs(t, err, ErrBucketStoreRequired)
}

func TestBuild_GroupsByWeek(t *testing.T) {
	builder, bucketStore := newTestBuilder(t)

	// Thursday and Friday of the same week, then the following Tuesday.
	chunks := []*core.Chunk{
		datedChunk(time.Date(1914, 7, 30, 0, 0, 0, 0, time.UTC), []float32{1, 0}),
		datedChunk(time.Date(1914, 7, 31, 0, 0, 0, 0, time.UTC), []float32{0, 1}),
		datedChunk(time.Date(1914, 8, 4, 0, 0, 0, 0, time.UTC), []float32{0.5, 0.5}),
	}

	written, err := builder.Build(context.Background(), chunks, core.GranularityWeek, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	buckets, err := bucketStore.GetBuckets(context.Background(), core.GranularityWeek,
		time.Date(1914, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1915, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	first := buckets[0]
	assert.Equal(t, time.Date(1914, 7, 27, 0, 0, 0, 0, time.UTC), first.BucketStart)
	assert.Equal(t, 2, first.ChunkCount)
	assert.InDelta(t, 0.5, first.Embedding[0], 1e-6)
	assert.InDelta(t, 0.5, first.Embedding[1], 1e-6)

	second := buckets[1]
	assert.Equal(t, time.Date(1914, 8, 3, 0, 0, 0, 0, time.UTC), second.BucketStart)
	assert.Equal(t, 1, second.ChunkCount)
}

func TestBuild_GroupsByMonth(t *testing.T) {
	builder, bucketStore := newTestBuilder(t)

	chunks := []*core.Chunk{
		datedChunk(time.Date(1914, 7, 2, 0, 0, 0, 0, time.UTC), []float32{1, 1}),
		datedChunk(time.Date(1914, 7, 29, 0, 0, 0, 0, time.UTC), []float32{3, 1}),
	}

	written, err := builder.Build(context.Background(), chunks, core.GranularityMonth, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	buckets, err := bucketStore.GetBuckets(context.Background(), core.GranularityMonth,
		time.Date(1914, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1915, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, time.Date(1914, 7, 1, 0, 0, 0, 0, time.UTC), buckets[0].BucketStart)
	assert.InDelta(t, 2.0, buckets[0].Embedding[0], 1e-6)
	assert.InDelta(t, 1.0, buckets[0].Embedding[1], 1e-6)
}

func TestBuild_SkipsUnusableChunks(t *testing.T) {
	builder, _ := newTestBuilder(t)

	chunks := []*core.Chunk{
		datedChunk(time.Time{}, []float32{1, 0}),                      // no date
		datedChunk(time.Date(1914, 7, 30, 0, 0, 0, 0, time.UTC), nil), // no embedding
		datedChunk(time.Date(1914, 7, 30, 0, 0, 0, 0, time.UTC), []float32{}),
	}

	written, err := builder.Build(context.Background(), chunks, core.GranularityWeek, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, written)
}

func TestBuild_DateRangeFilter(t *testing.T) {
	builder, bucketStore := newTestBuilder(t)

	chunks := []*core.Chunk{
		datedChunk(time.Date(1914, 7, 30, 0, 0, 0, 0, time.UTC), []float32{1, 0}),
		datedChunk(time.Date(1915, 3, 10, 0, 0, 0, 0, time.UTC), []float32{0, 1}),
	}

	opts := &BuildOptions{
		From: time.Date(1915, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(1915, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	written, err := builder.Build(context.Background(), chunks, core.GranularityMonth, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	buckets, err := bucketStore.GetBuckets(context.Background(), core.GranularityMonth,
		time.Date(1914, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1916, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, time.Date(1915, 3, 1, 0, 0, 0, 0, time.UTC), buckets[0].BucketStart)
}

func TestBuild_ClearReplacesExisting(t *testing.T) {
	builder, bucketStore := newTestBuilder(t)

	stale := &core.BucketEmbedding{
		BucketStart: time.Date(1913, 1, 6, 0, 0, 0, 0, time.UTC),
		Granularity: core.GranularityWeek,
		Embedding:   []float32{9, 9},
		ChunkCount:  1,
	}
	require.NoError(t, bucketStore.PutBuckets(context.Background(), stale))

	chunks := []*core.Chunk{
		datedChunk(time.Date(1914, 7, 30, 0, 0, 0, 0, time.UTC), []float32{1, 0}),
	}
	written, err := builder.Build(context.Background(), chunks, core.GranularityWeek, &BuildOptions{Clear: true})
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	buckets, err := bucketStore.GetBuckets(context.Background(), core.GranularityWeek,
		time.Date(1912, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1916, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, time.Date(1914, 7, 27, 0, 0, 0, 0, time.UTC), buckets[0].BucketStart)
}

func TestBuild_NoChunks(t *testing.T) {
	builder, _ := newTestBuilder(t)

	written, err := builder.Build(context.Background(), nil, core.GranularityWeek, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, written)
}
