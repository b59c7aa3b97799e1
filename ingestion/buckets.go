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
	"log/slog"
	"sort"
	"time"

	"github.com/elonge/venetia-engine/core"
	"github.com/elonge/venetia-engine/numeric"
	"github.com/elonge/venetia-engine/storage"
)

// BucketBuilder aggregates chunk embeddings into per-period mean embeddings
// and persists them to a bucket store.
type BucketBuilder struct {
	buckets storage.BucketStore
	logger  *slog.Logger
}

// BucketBuilderOption configures a BucketBuilder.
type BucketBuilderOption func(*BucketBuilder) error

// WithBucketLogger sets a custom logger.
// Default is slog.Default().
func WithBucketLogger(logger *slog.Logger) BucketBuilderOption {
	return func(b *BucketBuilder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBucketBuilder creates a BucketBuilder writing to buckets.
func NewBucketBuilder(buckets storage.BucketStore, opts ...BucketBuilderOption) (*BucketBuilder, error) {
	if buckets == nil {
		return nil, ErrBucketStoreRequired
	}

	b := &BucketBuilder{
		buckets: buckets,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// BuildOptions holds optional parameters for a bucket build.
type BuildOptions struct {
	Clear bool      // delete existing buckets at this granularity first
	From  time.Time // inclusive lower bound on chunk dates, zero for none
	To    time.Time // inclusive upper bound on chunk dates, zero for none
}

// Build groups chunks by the bucket containing their date, averages each
// group's embeddings element-wise, and writes the resulting bucket
// embeddings. Chunks without a date or an embedding are skipped. Returns the
// number of buckets written.
func (b *BucketBuilder) Build(ctx context.Context, chunks []*core.Chunk, granularity core.Granularity, opts *BuildOptions) (int, error) {
	if opts == nil {
		opts = &BuildOptions{}
	}

	if opts.Clear {
		deleted, err := b.buckets.DeleteBuckets(ctx, granularity)
		if err != nil {
			return 0, err
		}
		b.logger.Info("cleared existing buckets",
			"granularity", granularity,
			"deleted", deleted)
	}

	grouped := make(map[time.Time][][]float32)
	for _, chunk := range chunks {
		if chunk.Date.IsZero() || len(chunk.Embedding) == 0 {
			continue
		}
		if !opts.From.IsZero() && chunk.Date.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && chunk.Date.After(opts.To) {
			continue
		}
		start := granularity.Truncate(chunk.Date)
		grouped[start] = append(grouped[start], chunk.Embedding)
	}

	if len(grouped) == 0 {
		return 0, nil
	}

	starts := make([]time.Time, 0, len(grouped))
	for start := range grouped {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	embeddings := make([]*core.BucketEmbedding, 0, len(starts))
	for _, start := range starts {
		vectors := grouped[start]
		mean := numeric.MeanVector(vectors)
		if mean == nil {
			continue
		}
		embeddings = append(embeddings, &core.BucketEmbedding{
			BucketStart: start,
			Granularity: granularity,
			Embedding:   mean,
			ChunkCount:  len(vectors),
		})
	}

	if err := b.buckets.PutBuckets(ctx, embeddings...); err != nil {
		return 0, err
	}

	b.logger.Info("built bucket embeddings",
		"granularity", granularity,
		"buckets", len(embeddings))
	return len(embeddings), nil
}
