// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hbellamy/iepgen/pkg/types"
)

// DefaultModel is the embedding model used when the config leaves it unset.
const DefaultModel = "text-embedding-3-small"

const defaultMaxConcurrent = 10

// OpenAIEmbedder computes embeddings through the OpenAI API.
type OpenAIEmbedder struct {
	client        *openai.Client
	model         string
	dim           int
	maxConcurrent int
}

// NewOpenAI builds an OpenAI-backed embedder from config. The API key is
// required.
func NewOpenAI(cfg types.EmbeddingConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("embedding: API key not set")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	dim := 1536
	if model == "text-embedding-3-large" {
		dim = 3072
	}

	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}

	return &OpenAIEmbedder{
		client:        openai.NewClient(cfg.APIKey),
		model:         model,
		dim:           dim,
		maxConcurrent: maxConcurrent,
	}, nil
}

// Embed returns the L2-normalized embedding for one text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) == 0 {
		return nil, errors.New("cannot embed empty text")
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	v := make([]float32, len(resp.Data[0].Embedding))
	copy(v, resp.Data[0].Embedding)
	l2normalize(v)
	return v, nil
}

// EmbedBatch embeds texts with bounded concurrency, preserving input order.
// The first failure wins; remaining in-flight requests are drained.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	errChan := make(chan error, len(texts))
	sem := make(chan struct{}, e.maxConcurrent)

	for i := range texts {
		sem <- struct{}{}
		go func(idx int) {
			defer func() { <-sem }()
			v, err := e.Embed(ctx, texts[idx])
			if err != nil {
				errChan <- fmt.Errorf("embedding text %d: %w", idx, err)
				return
			}
			embeddings[idx] = v
			errChan <- nil
		}(i)
	}

	var firstErr error
	for range texts {
		if err := <-errChan; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return embeddings, nil
}

// Dimension returns the embedding vector length.
func (e *OpenAIEmbedder) Dimension() int { return e.dim }

// Model returns the embedding model identifier.
func (e *OpenAIEmbedder) Model() string { return e.model }
