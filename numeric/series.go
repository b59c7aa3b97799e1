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

package numeric

// RollingMean applies a centered rolling mean with the given window size.
//
// For window w, output[i] averages input[i-(w-1)/2 .. i+w/2], truncated at the
// sequence boundaries: no wraparound, no zero padding, boundary windows are
// simply smaller. Even windows lean one element to the right of center.
// A window size of 1 or less returns a copy of the input unchanged.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if window <= 1 || len(values) == 0 {
		return out
	}

	left := (window - 1) / 2
	right := window / 2

	for i := range values {
		lo := i - left
		if lo < 0 {
			lo = 0
		}
		hi := i + right
		if hi > len(values)-1 {
			hi = len(values) - 1
		}

		var sum float64
		for j := lo; j <= hi; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

// Normalize0to100 rescales values to the [0,100] range via min-max scaling.
//
// A constant input (max == min) maps every value to 0 rather than dividing by
// zero; an empty input returns an empty slice.
func Normalize0to100(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if max == min {
		return out
	}

	scale := 100 / (max - min)
	for i, v := range values {
		out[i] = (v - min) * scale
	}
	return out
}
