// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// FetchError reports a remote source that could not be retrieved: a network
// failure or a non-2xx response. The underlying cause is always included.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetching %s: %v", e.URL, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// NotFoundError reports a local source path that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("file not found: %s", e.Path) }

// ParseError reports malformed source content.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parsing %s: %v", e.Source, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// EmbeddingError wraps an embedding-provider failure during index build
// (authentication, quota, network).
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string { return fmt.Sprintf("embedding provider: %v", e.Err) }
func (e *EmbeddingError) Unwrap() error { return e.Err }

// IndexLoadError reports a persisted index that is missing, corrupt, or was
// built with an incompatible embedding configuration.
type IndexLoadError struct {
	Path string
	Err  error
}

func (e *IndexLoadError) Error() string { return fmt.Sprintf("loading index %s: %v", e.Path, e.Err) }
func (e *IndexLoadError) Unwrap() error { return e.Err }

// GenerationError wraps a language-model invocation failure. Retry policy is
// the caller's responsibility.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("model invocation: %v", e.Err) }
func (e *GenerationError) Unwrap() error { return e.Err }
