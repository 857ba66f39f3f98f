// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"os"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/hbellamy/iepgen/internal/chunk"
	"github.com/hbellamy/iepgen/pkg/types"
)

// ParsePDF loads a PDF into one Document per page, tagging every page with
// the given info category. When splitter is non-nil the pages are passed
// through it; callers that want whole pages pass nil.
func ParsePDF(path string, category types.InfoCategory, splitter *chunk.Splitter) ([]types.Chunk, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &types.NotFoundError{Path: path}
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &types.ParseError{Source: path, Err: err}
	}
	defer f.Close()

	var docs []types.Document
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, &types.ParseError{Source: path, Err: err}
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, types.Document{
			PageContent: text,
			Metadata: types.Metadata{
				SourceDoc:    path,
				InfoCategory: category,
				Extra:        map[string]string{"page": strconv.Itoa(i)},
			},
		})
	}

	if splitter == nil {
		return docs, nil
	}
	return splitter.SplitDocuments(docs), nil
}
