// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunk splits documents into bounded, overlapping text windows for
// the retrieval index. Splitting is recursive over natural text boundaries
// (paragraphs, then lines, then sentences, then words, then characters) and
// fully deterministic: identical input and parameters always yield an
// identical chunk sequence.
package chunk

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hbellamy/iepgen/pkg/types"
)

// Default chunking parameters, shared by PDF ingestion and batch collection.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 100
)

// separators are tried in order; the first one present in the text is used,
// with longer-than-budget pieces re-split by the remaining separators. The
// empty separator is the character-level last resort.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter produces chunks of at most ChunkSize bytes with ChunkOverlap
// bytes carried over between adjacent chunks from the same parent.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
}

// NewSplitter validates the parameters and returns a Splitter. The overlap
// must be smaller than the chunk size.
func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	return &Splitter{ChunkSize: size, ChunkOverlap: overlap}, nil
}

// DefaultSplitter returns a Splitter with the default parameters.
func DefaultSplitter() *Splitter {
	return &Splitter{ChunkSize: DefaultChunkSize, ChunkOverlap: DefaultChunkOverlap}
}

// SplitDocuments splits each document and stamps every derived chunk with
// its parent's metadata, unchanged.
func (s *Splitter) SplitDocuments(docs []types.Document) []types.Chunk {
	var chunks []types.Chunk
	for _, doc := range docs {
		for _, text := range s.SplitText(doc.PageContent) {
			chunks = append(chunks, types.Chunk{
				PageContent: text,
				Metadata:    doc.Metadata,
			})
		}
	}
	return chunks
}

// SplitText splits raw text into overlapping windows of at most ChunkSize
// bytes. Pieces keep their trailing separators, so concatenating a chunk's
// pieces reproduces the source text span exactly.
func (s *Splitter) SplitText(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= s.ChunkSize {
		return []string{text}
	}
	pieces := s.splitRecursive(text, separators)
	return s.merge(pieces)
}

// splitRecursive cuts text by the first applicable separator and re-splits
// any piece still over budget with the remaining separators.
func (s *Splitter) splitRecursive(text string, seps []string) []string {
	sep := ""
	var rest []string
	for i, candidate := range seps {
		if candidate == "" {
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			rest = seps[i+1:]
			break
		}
	}

	if sep == "" {
		return s.hardSplit(text)
	}

	var pieces []string
	for _, part := range strings.SplitAfter(text, sep) {
		switch {
		case part == "":
		case len(part) > s.ChunkSize:
			pieces = append(pieces, s.splitRecursive(part, rest)...)
		default:
			pieces = append(pieces, part)
		}
	}
	return pieces
}

// hardSplit cuts separator-free text into pieces no larger than the overlap
// (so the merge step can still honor the overlap budget), never cutting in
// the middle of a multi-byte rune.
func (s *Splitter) hardSplit(text string) []string {
	plen := s.ChunkOverlap
	if plen <= 0 || plen > s.ChunkSize {
		plen = s.ChunkSize
	}

	var pieces []string
	for len(text) > 0 {
		end := plen
		if end >= len(text) {
			pieces = append(pieces, text)
			break
		}
		for end > 0 && !utf8.RuneStart(text[end]) {
			end--
		}
		if end == 0 {
			end = plen
		}
		pieces = append(pieces, text[:end])
		text = text[end:]
	}
	return pieces
}

// merge greedily packs pieces into chunks of at most ChunkSize bytes. When a
// chunk is emitted, trailing pieces totaling at least ChunkOverlap bytes are
// retained as the start of the next chunk.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var window []string
	total := 0

	flush := func() {
		if total > 0 {
			chunks = append(chunks, strings.Join(window, ""))
		}
	}

	for _, p := range pieces {
		if total > 0 && total+len(p) > s.ChunkSize {
			flush()
			// Drop leading pieces until the retained tail is within the
			// overlap budget and the new piece fits.
			for len(window) > 0 &&
				(total-len(window[0]) >= s.ChunkOverlap || total+len(p) > s.ChunkSize) {
				total -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, p)
		total += len(p)
	}
	flush()
	return chunks
}
