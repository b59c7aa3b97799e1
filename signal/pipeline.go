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

package signal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/elonge/venetia-engine/ai"
	"github.com/elonge/venetia-engine/core"
	"github.com/elonge/venetia-engine/numeric"
	"github.com/elonge/venetia-engine/storage"
)

// DefaultWindow is the default smoothing window in buckets.
const DefaultWindow = 7

// corpusEnd is the last instant covered by the letters corpus. Series
// requests are clamped here; nothing was written after 1916.
var corpusEnd = time.Date(1916, 12, 31, 23, 59, 59, 0, time.UTC)

// Series is one derived concept intensity series. Recomputed per request.
type Series struct {
	Term        string                 `json:"term"`
	Granularity core.Granularity       `json:"granularity"`
	Window      int                    `json:"window"`
	Expansion   *core.ConceptExpansion `json:"expansion"`
	Points      []core.TimeSeriesPoint `json:"series"`
}

// Pipeline derives concept intensity time series from precomputed bucket
// embeddings.
type Pipeline struct {
	embedder ai.Embedder
	expander *Expander
	buckets  storage.BucketStore
	logger   *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline) error

// WithPipelineLogger sets a custom logger.
// Default is slog.Default().
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new signal pipeline.
func NewPipeline(embedder ai.Embedder, expander *Expander, buckets storage.BucketStore, opts ...PipelineOption) (*Pipeline, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if expander == nil {
		return nil, ErrExpanderRequired
	}
	if buckets == nil {
		return nil, ErrBucketStoreRequired
	}

	p := &Pipeline{
		embedder: embedder,
		expander: expander,
		buckets:  buckets,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// DeriveSeries computes the intensity series for a term across the whole
// corpus range.
func (p *Pipeline) DeriveSeries(ctx context.Context, term string, g core.Granularity, window int) (*Series, error) {
	return p.DeriveSeriesRange(ctx, term, g, window, time.Time{}, time.Time{})
}

// DeriveSeriesRange computes the intensity series for a term between from
// and to (either may be zero for an open bound; to is clamped to the corpus
// end). The pipeline expands the term, embeds the expansion text once,
// scores every bucket by cosine similarity, backfills gaps with zero,
// smooths with a centered rolling mean, and min-max normalizes the smoothed
// values to [0,100].
func (p *Pipeline) DeriveSeriesRange(ctx context.Context, term string, g core.Granularity, window int, from, to time.Time) (*Series, error) {
	if err := core.ValidateTerm(term); err != nil {
		return nil, err
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if to.IsZero() || to.After(corpusEnd) {
		to = corpusEnd
	}
	if !from.IsZero() && from.After(to) {
		return nil, fmt.Errorf("%w: from %s is after to %s", core.ErrInvalidInput,
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	expansion, err := p.expander.Expand(ctx, term)
	if err != nil {
		return nil, err
	}

	queryEmbedding, err := p.embedder.EmbedText(ctx, expansion.EmbeddingText())
	if err != nil {
		return nil, err
	}

	queryFrom := from
	if queryFrom.IsZero() {
		queryFrom = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	buckets, err := p.buckets.GetBuckets(ctx, g, queryFrom, g.Next(g.Truncate(to)))
	if err != nil {
		return nil, err
	}

	series := &Series{
		Term:        core.NormalizeTerm(term),
		Granularity: g,
		Window:      window,
		Expansion:   expansion,
		Points:      []core.TimeSeriesPoint{},
	}
	if len(buckets) == 0 {
		return series, nil
	}

	series.Points = scoreBuckets(g, buckets, queryEmbedding, from, to, window)
	p.logger.Debug("derived series", "term", series.Term, "granularity", g, "points", len(series.Points))
	return series, nil
}

// scoreBuckets turns stored buckets into the final point series: cosine per
// bucket, zero-raw backfill for missing buckets, smoothing, normalization.
func scoreBuckets(g core.Granularity, buckets []*core.BucketEmbedding, query []float32, from, to time.Time, window int) []core.TimeSeriesPoint {
	byStart := make(map[time.Time]*core.BucketEmbedding, len(buckets))
	for _, bucket := range buckets {
		byStart[bucket.BucketStart.UTC()] = bucket
	}

	start := buckets[0].BucketStart
	if !from.IsZero() {
		start = from
	}
	end := buckets[len(buckets)-1].BucketStart
	if !to.IsZero() && to.Before(corpusEnd) {
		end = to
	}

	var points []core.TimeSeriesPoint
	for cur := g.Truncate(start); !cur.After(end); cur = g.Next(cur) {
		point := core.TimeSeriesPoint{BucketStart: cur}
		if bucket, ok := byStart[cur]; ok {
			point.Raw = numeric.CosineSimilarity(query, bucket.Embedding)
			point.ChunkCount = bucket.ChunkCount
		}
		points = append(points, point)
	}

	raw := make([]float64, len(points))
	for i, point := range points {
		raw[i] = point.Raw
	}
	smooth := numeric.RollingMean(raw, window)
	norm := numeric.Normalize0to100(smooth)
	for i := range points {
		points[i].Smoothed = smooth[i]
		points[i].Normalized = norm[i]
	}
	return points
}
