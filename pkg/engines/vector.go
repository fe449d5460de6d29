// Copyright (C) 2025 Veracity AI (oss@veracity.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engines

import "math"

// CosineSimilarity computes the cosine similarity between two vectors.
//
// # Description
//
// Computes the cosine of the angle between two embedding vectors. Returns a
// value between -1 (opposite) and 1 (identical). Mismatched lengths or
// zero-norm vectors yield 0.0.
//
// # Performance
//
// O(n) in the vector dimension. Typical: well under 1 microsecond for
// 768-dim vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineDistance is 1 minus the cosine similarity, in [0,2].
func CosineDistance(a, b []float32) float64 {
	return 1.0 - CosineSimilarity(a, b)
}
