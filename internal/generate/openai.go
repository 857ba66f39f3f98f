// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hbellamy/iepgen/pkg/types"
)

// DefaultModel is the chat model used when the config leaves it unset.
const DefaultModel = "gpt-4o"

// OpenAIBackend invokes an OpenAI chat model. One prompt in, one response
// out; no conversation state.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend builds a chat backend from config. The API key is required.
func NewOpenAIBackend(cfg types.AIConfig) (*OpenAIBackend, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("generation: API key not set")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIBackend{client: openai.NewClient(cfg.APIKey), model: model}, nil
}

// Complete sends one user message and returns the model's reply text.
func (b *OpenAIBackend) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
