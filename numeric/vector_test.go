package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("self similarity is one", func(t *testing.T) {
		v := []float32{0.3, -0.7, 0.12, 0.98}
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-6)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := []float32{1, 2, 3}
		b := []float32{-2, 0.5, 4}
		assert.InDelta(t, CosineSimilarity(a, b), CosineSimilarity(b, a), 1e-12)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		a := []float32{1, 0}
		b := []float32{0, 1}
		assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-12)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		a := []float32{1, 1}
		b := []float32{-1, -1}
		assert.InDelta(t, -1.0, CosineSimilarity(a, b), 1e-6)
	})

	t.Run("zero vector yields zero", func(t *testing.T) {
		zero := []float32{0, 0, 0}
		v := []float32{1, 2, 3}
		assert.Equal(t, 0.0, CosineSimilarity(zero, v))
		assert.Equal(t, 0.0, CosineSimilarity(v, zero))
		assert.Equal(t, 0.0, CosineSimilarity(zero, zero))
	})

	t.Run("length mismatch yields zero", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	})

	t.Run("empty vectors yield zero", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float32{}, []float32{}))
	})
}

func TestNormalizeVector(t *testing.T) {
	tests := []struct {
		name     string
		input    []float32
		expected []float32
	}{
		{
			name:     "unit vector remains unchanged",
			input:    []float32{1.0, 0.0, 0.0},
			expected: []float32{1.0, 0.0, 0.0},
		},
		{
			name:     "scale non-unit vector",
			input:    []float32{3.0, 4.0},
			expected: []float32{0.6, 0.8},
		},
		{
			name:     "negative values",
			input:    []float32{-1.0, 1.0},
			expected: []float32{-1.0 / float32(math.Sqrt(2)), 1.0 / float32(math.Sqrt(2))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeVector(tt.input)
			require.Equal(t, len(tt.expected), len(result), "vector length mismatch")

			for i := range result {
				assert.InDelta(t, tt.expected[i], result[i], 1e-6, "element %d", i)
			}
		})
	}
}

func TestNormalizeVector_ZeroVector(t *testing.T) {
	result := NormalizeVector([]float32{0, 0, 0})
	for i, v := range result {
		assert.Equal(t, float32(0.0), v, "element %d should be 0", i)
	}
}

func TestMeanVector(t *testing.T) {
	t.Run("averages elementwise", func(t *testing.T) {
		mean := MeanVector([][]float32{
			{1, 2, 3},
			{3, 4, 5},
		})
		require.Len(t, mean, 3)
		assert.InDelta(t, 2.0, mean[0], 1e-6)
		assert.InDelta(t, 3.0, mean[1], 1e-6)
		assert.InDelta(t, 4.0, mean[2], 1e-6)
	})

	t.Run("skips mismatched lengths", func(t *testing.T) {
		mean := MeanVector([][]float32{
			{1, 1},
			{1, 1, 1},
			{3, 3},
		})
		require.Len(t, mean, 2)
		assert.InDelta(t, 2.0, mean[0], 1e-6)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, MeanVector(nil))
		assert.Nil(t, MeanVector([][]float32{{}}))
	})
}
