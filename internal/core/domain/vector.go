package domain

import "math"

// CosineSimilarity returns the cosine similarity of two vectors, or 0
// when either has zero magnitude or the dimensions differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Centroid returns the arithmetic mean of the vectors, representing a
// multi-chunk note as one point for similarity queries. Returns nil for
// an empty input or mismatched dimensions.
func Centroid(vectors [][]float32) []float32 {
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil
	}
	dim := len(vectors[0])
	sum := make([]float64, dim)
	for _, v := range vectors {
		if len(v) != dim {
			return nil
		}
		for i, x := range v {
			sum[i] += float64(x)
		}
	}
	out := make([]float32, dim)
	for i, s := range sum {
		out[i] = float32(s / float64(len(vectors)))
	}
	return out
}
