// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index builds, persists, and queries the vector index over
// document chunks. An index is immutable once built: rebuilds replace the
// whole index, and concurrent read-only queries are safe.
package index

import (
	"context"
	"math"
	"sort"

	"github.com/hbellamy/iepgen/internal/embed"
	"github.com/hbellamy/iepgen/pkg/types"
)

// NoSimilarityFloor keeps every retrieved chunk regardless of score.
// Cosine similarity is never below -1.
const NoSimilarityFloor float32 = -1

// VectorIndex pairs each chunk with its embedding (chunks[i] ↔ embeddings[i])
// and carries the embedder used for both build and query, so query vectors
// are always in the same space as the stored ones.
type VectorIndex struct {
	chunks     []types.Chunk
	embeddings [][]float32
	embedder   embed.Embedder
}

// Build embeds all chunks and assembles a searchable index. Provider
// failures surface as an EmbeddingError.
func Build(ctx context.Context, chunks []types.Chunk, embedder embed.Embedder) (*VectorIndex, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.PageContent
	}

	embeddings, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, &types.EmbeddingError{Err: err}
	}

	return &VectorIndex{
		chunks:     chunks,
		embeddings: embeddings,
		embedder:   embedder,
	}, nil
}

// Len returns the number of indexed chunks.
func (x *VectorIndex) Len() int { return len(x.chunks) }

// Search embeds the query text and returns up to k chunks ranked by
// descending cosine similarity. Chunks scoring below minSimilarity are
// excluded even if that yields fewer than k results; an empty result is not
// an error. Scores are normalized higher-is-better.
func (x *VectorIndex) Search(ctx context.Context, query string, k int, minSimilarity float32) (types.RetrievalResult, error) {
	qv, err := x.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &types.EmbeddingError{Err: err}
	}

	results := make(types.RetrievalResult, 0, len(x.chunks))
	for i := range x.chunks {
		score := cosineSimilarity(qv, x.embeddings[i])
		if score >= minSimilarity {
			results = append(results, types.ScoredChunk{Chunk: x.chunks[i], Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > 0 && k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// cosineSimilarity returns the cosine of the angle between two vectors, in
// [-1, 1], higher meaning more similar. Mismatched or zero vectors score 0.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (sqrt32(normA) * sqrt32(normB))
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
