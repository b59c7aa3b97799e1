package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elonge/venetia-engine/core"
)

func TestMarshalUnmarshalBucketEmbedding(t *testing.T) {
	weekStart := time.Date(1914, 7, 27, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		bucket *core.BucketEmbedding
	}{
		{
			name: "week bucket with embedding",
			bucket: &core.BucketEmbedding{
				BucketStart: weekStart,
				Granularity: core.GranularityWeek,
				Embedding:   []float32{0.1, -0.2, 0.3, 0.4, -0.5},
				ChunkCount:  12,
			},
		},
		{
			name: "month bucket",
			bucket: &core.BucketEmbedding{
				BucketStart: time.Date(1915, 3, 1, 0, 0, 0, 0, time.UTC),
				Granularity: core.GranularityMonth,
				Embedding:   []float32{1, 0, 0},
				ChunkCount:  1,
			},
		},
		{
			name: "empty embedding",
			bucket: &core.BucketEmbedding{
				BucketStart: weekStart,
				Granularity: core.GranularityWeek,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalBucketEmbedding(tt.bucket)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalBucketEmbedding(data)
			require.NoError(t, err)
			assert.True(t, tt.bucket.BucketStart.Equal(decoded.BucketStart))
			assert.Equal(t, tt.bucket.Granularity, decoded.Granularity)
			assert.Equal(t, tt.bucket.ChunkCount, decoded.ChunkCount)
			if len(tt.bucket.Embedding) == 0 {
				assert.Empty(t, decoded.Embedding)
			} else {
				assert.Equal(t, tt.bucket.Embedding, decoded.Embedding)
			}
		})
	}
}

func TestUnmarshalBucketEmbedding_Truncated(t *testing.T) {
	bucket := &core.BucketEmbedding{
		BucketStart: time.Date(1914, 8, 3, 0, 0, 0, 0, time.UTC),
		Granularity: core.GranularityWeek,
		Embedding:   []float32{0.5, 0.5},
		ChunkCount:  3,
	}
	data := MarshalBucketEmbedding(bucket)

	_, err := UnmarshalBucketEmbedding(data[:len(data)/2])
	assert.Error(t, err)
}

func TestMarshalUnmarshalConceptExpansion(t *testing.T) {
	tests := []struct {
		name      string
		expansion *core.ConceptExpansion
	}{
		{
			name: "full expansion",
			expansion: &core.ConceptExpansion{
				Term:       "jealousy",
				Definition: "Resentful suspicion of a rival's influence.",
				Synonyms:   []string{"envy", "possessiveness"},
				Indicators: []string{"complaints about other correspondents"},
				Exclusions: []string{"political rivalry"},
			},
		},
		{
			name: "no exclusions",
			expansion: &core.ConceptExpansion{
				Term:       "duty",
				Definition: "Obligation felt toward office or country.",
				Synonyms:   []string{"obligation"},
				Indicators: []string{"references to cabinet burdens"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalConceptExpansion(tt.expansion)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalConceptExpansion(data)
			require.NoError(t, err)
			assert.Equal(t, tt.expansion.Term, decoded.Term)
			assert.Equal(t, tt.expansion.Definition, decoded.Definition)
			assert.Equal(t, tt.expansion.Synonyms, decoded.Synonyms)
			assert.Equal(t, tt.expansion.Indicators, decoded.Indicators)
			if len(tt.expansion.Exclusions) == 0 {
				assert.Empty(t, decoded.Exclusions)
			} else {
				assert.Equal(t, tt.expansion.Exclusions, decoded.Exclusions)
			}
		})
	}
}

func TestUnmarshalConceptExpansion_Invalid(t *testing.T) {
	_, err := UnmarshalConceptExpansion([]byte{})
	assert.Error(t, err)
}
