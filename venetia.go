// Copyright 2025 Venetia Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package venetia assembles the letters engine: storage backends, AI
// services, and the retrieval, chat, and signal components, behind a single
// Engine type.
package venetia

import (
	"context"
	"errors"
	"log/slog"

	"github.com/elonge/venetia-engine/ai"
	"github.com/elonge/venetia-engine/ai/openai"
	"github.com/elonge/venetia-engine/chat"
	"github.com/elonge/venetia-engine/config"
	"github.com/elonge/venetia-engine/core"
	"github.com/elonge/venetia-engine/ingestion"
	"github.com/elonge/venetia-engine/retrieval"
	"github.com/elonge/venetia-engine/server"
	"github.com/elonge/venetia-engine/signal"
	"github.com/elonge/venetia-engine/storage"
	badgerstore "github.com/elonge/venetia-engine/storage/badger"
	"github.com/elonge/venetia-engine/storage/qdrant"
)

// Engine wires the retrieval, chat, and signal components over shared
// storage and AI services. It is the single entry point the CLI and server
// binaries build on.
type Engine struct {
	backend   *badgerstore.Backend
	buckets   storage.BucketStore
	concepts  storage.ConceptStore
	chunks    storage.ChunkStore
	provider  ai.Provider
	retriever *retrieval.Retriever
	streamer  *chat.Streamer
	series    *signal.Pipeline
	dims      int
	logger    *slog.Logger
}

// EngineOption configures engine construction.
type EngineOption func(*engineOptions)

type engineOptions struct {
	provider ai.Provider
	chunks   storage.ChunkStore
	inMemory bool
}

// WithProvider overrides the AI provider, bypassing the OpenAI-compatible
// default. Used by tests to inject mocks.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithChunkStore overrides the chunk store, bypassing the Qdrant default.
func WithChunkStore(chunks storage.ChunkStore) EngineOption {
	return func(o *engineOptions) {
		o.chunks = chunks
	}
}

// WithInMemoryStorage uses an in-memory bucket and expansion database
// regardless of the configured path.
func WithInMemoryStorage() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// NewEngine builds an engine from configuration.
func NewEngine(cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}

	provider := options.provider
	if provider == nil {
		p, err := openai.NewProvider(cfg.AIConfig())
		if err != nil {
			return nil, err
		}
		provider = p
	}

	chunks := options.chunks
	if chunks == nil {
		qc, err := qdrant.NewChunkStore(cfg.Storage.Qdrant.Addr, cfg.Storage.Qdrant.Collection)
		if err != nil {
			provider.Close()
			return nil, err
		}
		chunks = qc
	}

	inMemory := options.inMemory || cfg.Storage.BadgerPath == ""
	backend, err := badgerstore.OpenBackend(cfg.Storage.BadgerPath, inMemory)
	if err != nil {
		chunks.Close()
		provider.Close()
		return nil, err
	}

	buckets, err := badgerstore.NewBucketStore(backend)
	if err != nil {
		backend.Close()
		chunks.Close()
		provider.Close()
		return nil, err
	}

	concepts, err := badgerstore.NewConceptStore(backend)
	if err != nil {
		buckets.Close()
		backend.Close()
		chunks.Close()
		provider.Close()
		return nil, err
	}

	e := &Engine{
		backend:  backend,
		buckets:  buckets,
		concepts: concepts,
		chunks:   chunks,
		provider: provider,
		dims:     cfg.Storage.Qdrant.Dims,
		logger:   slog.Default(),
	}

	e.retriever, err = retrieval.NewRetriever(provider.Embedder(), chunks)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.streamer, err = chat.NewStreamer(provider.ChatStreamer())
	if err != nil {
		e.Close()
		return nil, err
	}

	expander, err := signal.NewExpander(provider.ConceptExpander(),
		signal.WithConceptStore(concepts))
	if err != nil {
		e.Close()
		return nil, err
	}

	e.series, err = signal.NewPipeline(provider.Embedder(), expander, buckets)
	if err != nil {
		e.Close()
		return nil, err
	}

	return e, nil
}

// Retriever returns the evidence retriever.
func (e *Engine) Retriever() *retrieval.Retriever {
	return e.retriever
}

// Streamer returns the chat response streamer.
func (e *Engine) Streamer() *chat.Streamer {
	return e.streamer
}

// SeriesPipeline returns the concept signal pipeline.
func (e *Engine) SeriesPipeline() *signal.Pipeline {
	return e.series
}

// ChunkStore returns the chunk store.
func (e *Engine) ChunkStore() storage.ChunkStore {
	return e.chunks
}

// BucketStore returns the bucket embedding store.
func (e *Engine) BucketStore() storage.BucketStore {
	return e.buckets
}

// Provider returns the AI provider.
func (e *Engine) Provider() ai.Provider {
	return e.provider
}

// NewServer builds the HTTP server over this engine's components.
func (e *Engine) NewServer(opts ...server.Option) (*server.Server, error) {
	return server.NewServer(e.retriever, e.streamer, e.series, e.chunks, opts...)
}

// NewIngestionPipeline builds a document ingestion pipeline writing to this
// engine's chunk store.
func (e *Engine) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(e.chunks, e.provider.Embedder(), opts...)
}

// NewBucketBuilder builds a bucket builder writing to this engine's bucket
// store.
func (e *Engine) NewBucketBuilder(opts ...ingestion.BucketBuilderOption) (*ingestion.BucketBuilder, error) {
	return ingestion.NewBucketBuilder(e.buckets, opts...)
}

type collectionEnsurer interface {
	EnsureCollection(ctx context.Context, dims int) error
}

type chunkScroller interface {
	ScrollChunks(ctx context.Context) ([]*core.Chunk, error)
}

// ScrollChunks reads every stored chunk with its embedding back from the
// chunk store, for offline bucket rebuilds.
func (e *Engine) ScrollChunks(ctx context.Context) ([]*core.Chunk, error) {
	scroller, ok := e.chunks.(chunkScroller)
	if !ok {
		return nil, errors.New("chunk store does not support scrolling")
	}
	return scroller.ScrollChunks(ctx)
}

// EnsureCollection creates the vector collection when the chunk store
// supports it and the collection does not exist yet.
func (e *Engine) EnsureCollection(ctx context.Context) error {
	if ensurer, ok := e.chunks.(collectionEnsurer); ok {
		return ensurer.EnsureCollection(ctx, e.dims)
	}
	return nil
}

// Close releases all engine resources.
func (e *Engine) Close() error {
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	if err := e.chunks.Close(); err != nil {
		e.logger.Error("error closing chunk store", "err", err)
	}

	if e.concepts != nil {
		if err := e.concepts.Close(); err != nil {
			e.logger.Error("error closing concept store", "err", err)
			return err
		}
	}
	if e.buckets != nil {
		if err := e.buckets.Close(); err != nil {
			e.logger.Error("error closing bucket store", "err", err)
			return err
		}
	}

	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
