// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed turns chunk text into similarity-searchable vectors.
package embed

import (
	"context"
	"math"
)

// Embedder abstracts the embedding provider so the index builder and tests
// can supply alternatives.
type Embedder interface {
	// Embed returns the embedding vector for one text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per input text, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension is the provider's embedding vector length.
	Dimension() int

	// Model identifies the embedding model. A persisted index records it
	// and refuses to load under a different model.
	Model() string
}

// l2normalize scales a vector to unit length in place. Unit vectors make
// cosine similarity a plain dot product and keep threshold semantics stable.
func l2normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}
