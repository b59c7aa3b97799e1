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

package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/elonge/venetia-engine/ai"
	"github.com/elonge/venetia-engine/core"
	"github.com/elonge/venetia-engine/storage"
)

// Config holds configuration for a reembedding run.
type Config struct {
	// BatchSize is the number of chunks embedded per provider call.
	BatchSize int

	// ReportInterval is how often to report progress (number of chunks).
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts per batch.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// ChunkSource yields every stored chunk with its payload. The qdrant chunk
// store satisfies this via ScrollChunks.
type ChunkSource interface {
	ScrollChunks(ctx context.Context) ([]*core.Chunk, error)
}

// Reembedder regenerates the embeddings of all chunks in a store.
type Reembedder struct {
	source   ChunkSource
	store    storage.ChunkStore
	embedder ai.Embedder
	config   *Config
	progress io.Writer
}

// NewReembedder creates a reembedder reading chunks from source, embedding
// them with embedder, and writing them back through store.
// progress: where to write progress output (typically os.Stderr).
func NewReembedder(source ChunkSource, store storage.ChunkStore, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	if store == nil {
		return nil, ErrChunkStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		source:   source,
		store:    store,
		embedder: embedder,
		config:   config,
		progress: progress,
	}, nil
}

// Run executes the reembedding operation over every stored chunk.
func (r *Reembedder) Run(ctx context.Context) error {
	chunks, err := r.source.ScrollChunks(ctx)
	if err != nil {
		return fmt.Errorf("failed to read chunks: %w", err)
	}

	total := len(chunks)
	if total == 0 {
		fmt.Fprintf(r.progress, "No chunks found in store (0 chunks)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d chunks (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	for start := 0; start < total; start += r.config.BatchSize {
		end := start + r.config.BatchSize
		if end > total {
			end = total
		}
		batch := chunks[start:end]

		if err := r.processBatch(ctx, batch); err != nil {
			return fmt.Errorf("failed to process batch at chunk %d: %w", start, err)
		}

		processed += len(batch)
		tracker.Update(processed)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())
	return nil
}

// processBatch embeds one batch of chunks and upserts the result, retrying
// transient failures with exponential backoff.
func (r *Reembedder) processBatch(ctx context.Context, batch []*core.Chunk) error {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Content
	}

	backoff := retry.WithMaxRetries(uint64(r.config.MaxRetries), retry.NewExponential(r.config.RetryDelay))

	var vectors [][]float32
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var embedErr error
		vectors, embedErr = r.embedder.EmbedTexts(ctx, texts)
		if embedErr != nil {
			return retry.RetryableError(embedErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(batch))
	}

	for i, chunk := range batch {
		chunk.Embedding = vectors[i]
	}

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if upsertErr := r.store.UpsertChunks(ctx, batch...); upsertErr != nil {
			return retry.RetryableError(upsertErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert failed: %w", err)
	}
	return nil
}
