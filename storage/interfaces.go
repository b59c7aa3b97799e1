package storage

import (
	"context"
	"time"

	"github.com/elonge/venetia-engine/core"
)

// ChunkStore provides vector search over the ingested corpus.
// Implementations must be thread-safe and support concurrent access.
type ChunkStore interface {
	// Query finds the k chunks most similar to the given vector.
	// Results are ordered by similarity score (highest first). An empty result
	// set is a valid outcome, not an error.
	// Fails with core.ErrStoreUnavailable if the store is unreachable.
	Query(ctx context.Context, vector []float32, k int) ([]core.ChunkResult, error)

	// UpsertChunks writes embedded chunks into the store, replacing chunks
	// with the same derived ID.
	UpsertChunks(ctx context.Context, chunks ...*core.Chunk) error

	// ListSources returns the distinct source identifiers present in the
	// store, sorted ascending.
	ListSources(ctx context.Context) ([]string, error)

	// Close closes the store connection and releases resources.
	Close() error
}

// BucketStore manages precomputed per-bucket aggregate embeddings.
type BucketStore interface {
	// PutBuckets writes bucket embeddings, overwriting any existing bucket
	// with the same granularity and start date.
	PutBuckets(ctx context.Context, buckets ...*core.BucketEmbedding) error

	// GetBuckets retrieves bucket embeddings for a granularity where
	// from <= BucketStart < to, ordered by BucketStart ascending.
	GetBuckets(ctx context.Context, g core.Granularity, from, to time.Time) ([]*core.BucketEmbedding, error)

	// DeleteBuckets removes all buckets for a granularity.
	// Returns the number of buckets removed.
	DeleteBuckets(ctx context.Context, g core.Granularity) (int, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// ConceptStore persists concept expansions keyed by normalized term, so a
// term expanded once survives process restarts.
type ConceptStore interface {
	// GetExpansion retrieves the cached expansion for a term.
	// The term is normalized before lookup.
	// Returns ErrNotFound if the term has never been expanded.
	GetExpansion(ctx context.Context, term string) (*core.ConceptExpansion, error)

	// PutExpansion caches an expansion keyed by its normalized term.
	// Callers must not cache incomplete expansions.
	PutExpansion(ctx context.Context, expansion *core.ConceptExpansion) error

	// Close closes the storage backend and releases resources.
	Close() error
}
