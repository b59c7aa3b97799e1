package ai

import (
	"context"

	"github.com/elonge/venetia-engine/core"
)

// Embedder generates vector embeddings from text for semantic similarity.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text and is
	// never mutated after return.
	// Fails with core.ErrEmbeddingUnavailable if the provider is unreachable.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ConceptExpander produces a structured elaboration of an abstract term via a
// generation call constrained to a fixed-shape result.
// Implementations must be thread-safe for concurrent use.
type ConceptExpander interface {
	// ExpandConcept returns the expansion for a term. An expansion missing its
	// definition fails with core.ErrExpansionIncomplete; other generation
	// failures fail with core.ErrGenerationFailed.
	ExpandConcept(ctx context.Context, term string) (*core.ConceptExpansion, error)
}

// ChatStreamer issues a streaming chat generation over an ordered message
// sequence. Implementations must be thread-safe for concurrent use.
type ChatStreamer interface {
	// StreamChat opens a streaming generation call and invokes onDelta for
	// each incremental text fragment as it arrives. If onDelta returns an
	// error the stream is abandoned and that error is returned; cancellation
	// of ctx aborts the in-flight provider call.
	// Fails with core.ErrGenerationFailed on provider errors.
	StreamChat(ctx context.Context, turns []core.Turn, onDelta func(delta string) error) error
}

// Provider aggregates the AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder,
// ConceptExpander, and ChatStreamer instances, ensuring they share
// configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// ConceptExpander returns the concept expansion service.
	ConceptExpander() ConceptExpander

	// ChatStreamer returns the streaming chat generation service.
	ChatStreamer() ChatStreamer

	// Close releases resources held by the provider and its services.
	Close() error
}
