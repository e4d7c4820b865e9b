package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		v := []float32{0.5, 0.3, 0.2}
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 2}, []float32{-1, -2}), 1e-9)
	})

	t.Run("mismatched dimensions", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	})

	t.Run("zero magnitude", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 2}))
	})

	t.Run("empty vectors", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
	})
}

func TestCentroid(t *testing.T) {
	t.Run("mean of vectors", func(t *testing.T) {
		got := Centroid([][]float32{{1, 2}, {3, 4}})
		assert.Equal(t, []float32{2, 3}, got)
	})

	t.Run("single vector", func(t *testing.T) {
		got := Centroid([][]float32{{0.5, 0.5}})
		assert.Equal(t, []float32{0.5, 0.5}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, Centroid(nil))
	})

	t.Run("mismatched dimensions", func(t *testing.T) {
		assert.Nil(t, Centroid([][]float32{{1, 2}, {1}}))
	})
}
