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

package ingestion

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/elonge/venetia-engine/ai"
	"github.com/elonge/venetia-engine/core"
	"github.com/elonge/venetia-engine/storage"
)

// Document is a single source text prepared for ingestion.
type Document struct {
	Source  string    // stable identifier derived from the file name
	Title   string    // human-readable title used in citations
	Date    time.Time // letter date, zero when unknown
	Content string
}

// DocumentFromFile reads a document from disk and derives its source name,
// title, and date from the file name.
func DocumentFromFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Source:  SourceName(path),
		Title:   DocumentTitle(path),
		Date:    DocumentDate(path),
		Content: string(data),
	}, nil
}

// Pipeline chunks documents, embeds the chunks concurrently, and writes them
// to the chunk store.
type Pipeline struct {
	chunks   storage.ChunkStore
	embedder ai.Embedder
	chunker  *Chunker
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunking sets the chunk size and overlap in estimated tokens.
// Defaults are DefaultChunkSize and DefaultChunkOverlap.
func WithChunking(chunkSize, overlap int) Option {
	return func(p *Pipeline) error {
		p.chunker = NewChunker(chunkSize, overlap)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new document ingestion pipeline.
func NewPipeline(chunks storage.ChunkStore, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if chunks == nil {
		return nil, ErrChunkStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		chunks:   chunks,
		embedder: embedder,
		chunker:  NewChunker(DefaultChunkSize, DefaultChunkOverlap),
		pool:     pool,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestDocument splits a document into chunks, embeds them concurrently, and
// upserts the result into the chunk store. The embedded chunks are returned
// so callers can aggregate them further, e.g. into bucket embeddings.
func (p *Pipeline) IngestDocument(ctx context.Context, doc Document) ([]*core.Chunk, error) {
	pieces := p.chunker.Split(doc.Content)
	if len(pieces) == 0 {
		return nil, ErrEmptyDocument
	}

	chunks := make([]*core.Chunk, len(pieces))
	for i, content := range pieces {
		chunks[i] = &core.Chunk{
			Content:       content,
			Source:        doc.Source,
			DocumentTitle: doc.Title,
			ChunkIndex:    i,
			Date:          doc.Date,
		}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	record := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for i := range chunks {
		chunk := chunks[i]
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			vector, embedErr := p.embedder.EmbedText(ctx, chunk.Content)
			if embedErr != nil {
				record(embedErr)
				return
			}
			chunk.Embedding = vector
		})
		if err != nil {
			wg.Done()
			record(err)
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	if err := p.chunks.UpsertChunks(ctx, chunks...); err != nil {
		return nil, err
	}

	p.logger.Info("ingested document",
		"source", doc.Source,
		"chunks", len(chunks))
	return chunks, nil
}

// IngestDirectory walks root recursively, ingesting every .txt and .md file.
// Empty documents are skipped with a warning; any other failure aborts the
// walk. Returns all embedded chunks across the ingested documents.
func (p *Pipeline) IngestDirectory(ctx context.Context, root string) ([]*core.Chunk, error) {
	var all []*core.Chunk

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".txt" && ext != ".md" {
			return nil
		}

		doc, readErr := DocumentFromFile(path)
		if readErr != nil {
			return readErr
		}

		chunks, ingestErr := p.IngestDocument(ctx, doc)
		if errors.Is(ingestErr, ErrEmptyDocument) {
			p.logger.Warn("skipping empty document", "path", path)
			return nil
		}
		if ingestErr != nil {
			return ingestErr
		}

		all = append(all, chunks...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return all, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
