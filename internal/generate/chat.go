// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"

	"github.com/hbellamy/iepgen/internal/index"
	"github.com/hbellamy/iepgen/pkg/types"
)

// formatSuffix nudges the model toward scannable answers.
const formatSuffix = " Provide an answer in bullet point format, when applicable."

// Ask answers a free-form question strictly from retrieved context. No
// coverage gate applies: this is a best-effort assistant, not a
// compliance-bound document. Each call is stateless at the retrieval layer;
// conversation history, if any, is the caller's to maintain.
func (g *Generator) Ask(ctx context.Context, question string) (string, types.RetrievalResult, error) {
	evidence, err := g.index.Search(ctx, question, g.cfg.ChatTopK, index.NoSimilarityFloor)
	if err != nil {
		return "", nil, err
	}

	prompt, err := renderChatPrompt(evidence.JoinContent(), question+formatSuffix)
	if err != nil {
		return "", nil, err
	}

	answer, err := g.backend.Complete(ctx, prompt)
	if err != nil {
		return "", evidence, &types.GenerationError{Err: err}
	}
	return answer, evidence, nil
}
