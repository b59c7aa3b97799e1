package numeric

import "math"

// CosineSimilarity computes dot(a,b) / (|a|·|b|) for two embedding vectors.
//
// If the vectors differ in length, or either has zero magnitude, the result
// is 0 rather than an error: an all-zero or malformed bucket must not abort
// a whole series computation.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// NormalizeVector normalizes a vector to unit length.
// Returns a new vector. If the input is a zero vector, returns a zero vector.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var magnitude float32
	for _, val := range v {
		magnitude += val * val
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))

	// Can't normalize zero vector
	if magnitude == 0 {
		result := make([]float32, len(v))
		return result
	}

	result := make([]float32, len(v))
	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}

// MeanVector computes the element-wise mean of a set of equal-length vectors.
// Vectors whose length differs from the first are skipped. Returns nil when
// no usable vectors remain.
func MeanVector(vectors [][]float32) []float32 {
	var sum []float64
	count := 0
	for _, v := range vectors {
		if len(v) == 0 {
			continue
		}
		if sum == nil {
			sum = make([]float64, len(v))
		}
		if len(v) != len(sum) {
			continue
		}
		for i, val := range v {
			sum[i] += float64(val)
		}
		count++
	}
	if count == 0 {
		return nil
	}

	mean := make([]float32, len(sum))
	for i, val := range sum {
		mean[i] = float32(val / float64(count))
	}
	return mean
}
