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

package retrieval

import (
	"context"
	"log/slog"

	"github.com/elonge/venetia-engine/ai"
	"github.com/elonge/venetia-engine/core"
	"github.com/elonge/venetia-engine/storage"
)

// ChatTopK is the evidence depth used for interactive chat retrieval.
const ChatTopK = 8

// Retriever turns a query string into ranked chunk evidence.
type Retriever struct {
	embedder ai.Embedder
	store    storage.ChunkStore
	monitor  Monitor
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithMonitor sets a monitor to observe retrieval stages.
// Default is a no-op.
func WithMonitor(monitor Monitor) Option {
	return func(r *Retriever) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		r.monitor = monitor
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(embedder ai.Embedder, store storage.ChunkStore, opts ...Option) (*Retriever, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrChunkStoreRequired
	}

	r := &Retriever{
		embedder: embedder,
		store:    store,
		monitor:  &noopMonitor{},
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve embeds the query, runs a top-k similarity search, and assembles
// the evidence bundle. An empty result set yields an empty bundle, not an
// error; only infrastructure failures surface as errors.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) (*core.EvidenceBundle, error) {
	if err := core.ValidateMessage(query); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = ChatTopK
	}
	r.monitor.Start(query)

	embedding, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	r.monitor.AfterEmbedding(embedding)

	chunks, err := r.store.Query(ctx, embedding, k)
	if err != nil {
		r.logger.Error("error querying chunk store", "err", err)
		return nil, err
	}
	r.monitor.AfterStoreQuery(chunks)

	r.logger.Debug("retrieved evidence", "query", query, "hits", len(chunks))
	bundle := &core.EvidenceBundle{Query: query, Chunks: chunks}
	r.monitor.Finish(bundle)
	return bundle, nil
}

// RetrieveWithHistory reformulates the message against recent conversation
// turns before retrieving, so follow-up questions embed with their referent.
func (r *Retriever) RetrieveWithHistory(ctx context.Context, message string, history []core.Turn, k int) (*core.EvidenceBundle, error) {
	return r.Retrieve(ctx, BuildQueryWithContext(message, history), k)
}
