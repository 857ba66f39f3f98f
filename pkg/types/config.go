// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests. Some
	// source sites reject non-browser agents, so the default imitates a
	// desktop browser.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// IngestConfig holds settings for the document ingestion stage.
type IngestConfig struct {
	HTTPConfig `yaml:",inline"`

	// DataDir is the base directory for source documents (career profile
	// HTML files and the state-standards PDF).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// RegistryPath optionally points to a YAML file overriding the
	// built-in occupation source registry.
	RegistryPath string `json:"registry_path,omitempty" yaml:"registry_path,omitempty"`

	// ChunkSize is the maximum characters per chunk (default 500).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// ChunkOverlap is the character overlap between adjacent chunks
	// (default 100).
	ChunkOverlap int `json:"chunk_overlap" yaml:"chunk_overlap"`
}

// AIConfig holds shared settings for stages that call the OpenAI API.
type AIConfig struct {
	// Model is the model identifier (e.g. "gpt-4o").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// EmbeddingConfig holds settings for the embedding provider.
type EmbeddingConfig struct {
	AIConfig `yaml:",inline"`

	// MaxConcurrent bounds simultaneous embedding requests (default 10).
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`
}

// IndexConfig holds settings for the vector index.
type IndexConfig struct {
	// IndexDir is the directory holding the persisted index database and
	// its manifest.
	IndexDir string `json:"index_dir" yaml:"index_dir"`
}

// GenerationConfig holds settings for goal generation and chat QA.
type GenerationConfig struct {
	AIConfig `yaml:",inline"`

	// TopK is the retrieval breadth for goal generation (default 5).
	TopK int `json:"top_k" yaml:"top_k"`

	// ChatTopK is the retrieval breadth for conversational QA (default 3).
	// Smaller than TopK: open-ended questions favor precision over breadth.
	ChatTopK int `json:"chat_top_k" yaml:"chat_top_k"`

	// MinSimilarity optionally excludes retrieved chunks scoring below
	// this cosine similarity. Zero disables the floor.
	MinSimilarity float32 `json:"min_similarity,omitempty" yaml:"min_similarity,omitempty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Ingest     IngestConfig     `json:"ingest" yaml:"ingest"`
	Embedding  EmbeddingConfig  `json:"embedding" yaml:"embedding"`
	Index      IndexConfig      `json:"index" yaml:"index"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`
}
