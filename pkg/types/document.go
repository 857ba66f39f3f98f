// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// InfoCategory classifies a document's evidentiary role in the index.
type InfoCategory string

const (
	// CategoryCareerProfile marks occupational outlook content for one career.
	CategoryCareerProfile InfoCategory = "career_profile"

	// CategoryStateStandards marks state educational standards content.
	CategoryStateStandards InfoCategory = "state_standards"

	// CategoryIDEA marks regulatory text from the Individuals with
	// Disabilities Education Act.
	CategoryIDEA InfoCategory = "idea"
)

// RequiredCategories lists the categories that must be present among
// retrieved evidence before a goal may be drafted.
var RequiredCategories = []InfoCategory{CategoryCareerProfile, CategoryStateStandards}

// Metadata carries provenance and classification for a Document. The three
// named fields are the required schema; Extra holds category-specific
// additions (e.g. a PDF page number) without widening the schema.
type Metadata struct {
	// Source is the canonical URL the content was published at, if any.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// SourceDoc is the local file path the content was read from, if any.
	SourceDoc string `json:"source_doc,omitempty" yaml:"source_doc,omitempty"`

	// InfoCategory is the document's evidentiary role. Set once at
	// ingestion; downstream stages treat it as read-only.
	InfoCategory InfoCategory `json:"info_category,omitempty" yaml:"info_category,omitempty"`

	// Extra holds open extension fields keyed by name.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Document is one unit of extracted content. Created by ingestion and never
// mutated downstream.
type Document struct {
	// PageContent is the ordered extracted text.
	PageContent string `json:"page_content" yaml:"page_content"`

	// Metadata is the document's provenance record.
	Metadata Metadata `json:"metadata" yaml:"metadata"`
}

// Chunk is a Document of bounded size produced by the splitter. Chunks
// inherit their parent's Metadata unchanged.
type Chunk = Document

// ScoredChunk pairs a retrieved Chunk with its normalized similarity score
// (cosine, higher is better).
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk" yaml:"chunk"`
	Score float32 `json:"score" yaml:"score"`
}

// RetrievalResult is the ordered evidence returned for one query, ranked by
// descending similarity. A fresh query produces a fresh result.
type RetrievalResult []ScoredChunk

// Categories returns the set of distinct info categories present in the result.
func (r RetrievalResult) Categories() map[InfoCategory]bool {
	cats := make(map[InfoCategory]bool)
	for _, sc := range r {
		if c := sc.Chunk.Metadata.InfoCategory; c != "" {
			cats[c] = true
		}
	}
	return cats
}

// MissingCategories returns the members of required that have no retrieved
// chunk, in the order given.
func (r RetrievalResult) MissingCategories(required []InfoCategory) []InfoCategory {
	present := r.Categories()
	var missing []InfoCategory
	for _, c := range required {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// ContentByCategory concatenates the page content of all chunks tagged with
// the given category, space-joined in retrieval order.
func (r RetrievalResult) ContentByCategory(cat InfoCategory) string {
	var parts []string
	for _, sc := range r {
		if sc.Chunk.Metadata.InfoCategory == cat {
			parts = append(parts, sc.Chunk.PageContent)
		}
	}
	return strings.Join(parts, " ")
}

// JoinContent concatenates the page content of every chunk in retrieval
// order, separated by blank lines. Used to build grounded prompts.
func (r RetrievalResult) JoinContent() string {
	parts := make([]string, 0, len(r))
	for _, sc := range r {
		parts = append(parts, sc.Chunk.PageContent)
	}
	return strings.Join(parts, "\n\n")
}
