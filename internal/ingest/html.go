// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest extracts normalized text and provenance metadata from
// heterogeneous sources: occupation outlook HTML pages (remote or local),
// the state-standards PDF, and the IDEA regulations page. Extraction is a
// deliberate allowlist, not a general HTML-to-text conversion; the rules
// below exist to drop decorative and hidden markup while keeping the
// substantive content reproducible for test fixtures.
package ingest

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hbellamy/iepgen/pkg/types"
)

// allowedTags are the semantically meaningful elements collected in document
// order: headings (levels 1, 2, 3, 5, 6), paragraphs, line breaks, and list
// items.
var allowedTags = map[atom.Atom]bool{
	atom.H1: true,
	atom.H2: true,
	atom.H3: true,
	atom.H5: true,
	atom.H6: true,
	atom.P:  true,
	atom.Br: true,
	atom.Li: true,
}

// ExtractURL fetches a remote HTML source and extracts its content. When
// meta is nil the metadata defaults to {source: url}.
func ExtractURL(ctx context.Context, client *http.Client, url string, cfg types.HTTPConfig, meta *types.Metadata) (types.Document, error) {
	body, err := fetch(ctx, client, url, cfg)
	if err != nil {
		return types.Document{}, err
	}
	if meta == nil {
		meta = &types.Metadata{Source: url}
	}
	return extractHTML(body, url, *meta)
}

// ExtractFile reads a local HTML source and extracts its content. When meta
// is nil the metadata defaults to {source_doc: path}. A missing path is a
// NotFoundError.
func ExtractFile(path string, meta *types.Metadata) (types.Document, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.Document{}, &types.NotFoundError{Path: path}
		}
		return types.Document{}, &types.ParseError{Source: path, Err: err}
	}
	if meta == nil {
		meta = &types.Metadata{SourceDoc: path}
	}
	return extractHTML(body, path, *meta)
}

// extractHTML runs the allowlist extraction over parsed markup and joins the
// collected blocks with blank lines.
func extractHTML(body []byte, source string, meta types.Metadata) (types.Document, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return types.Document{}, &types.ParseError{Source: source, Err: err}
	}

	var blocks []string
	appendBlock := func(text string) {
		if text != "" {
			blocks = append(blocks, text)
		}
	}

	// Pass 1: headings, paragraphs, breaks, and list items in document
	// order. Visually-hidden paragraphs and list items without an explicit
	// class marker are noise, not content.
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || !allowedTags[n.DataAtom] {
			return
		}
		switch n.DataAtom {
		case atom.P:
			if hasClass(n, "visually-hidden") {
				return
			}
		case atom.Li:
			if _, ok := attr(n, "class"); !ok {
				return
			}
		}
		appendBlock(nodeText(n, " "))
	})

	// Pass 2: tables become one block each, pipe-delimited cells and
	// newline-joined rows.
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			appendBlock(tableText(n))
		}
	})

	// Pass 3: the "order-2 flex-grow-1" content container, excluding
	// hidden and dropdown-menu variants and anything inside a nav.
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Div {
			return
		}
		if !hasClass(n, "order-2") || !hasClass(n, "flex-grow-1") {
			return
		}
		if hasClass(n, "visually-hidden") || hasClass(n, "dropdown-menu") || insideNav(n) {
			return
		}
		appendBlock(nodeText(n, " "))
	})

	// Pass 4: "reportsection" containers, excluding nav-nested instances.
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Div {
			return
		}
		if !hasClass(n, "reportsection") || insideNav(n) {
			return
		}
		appendBlock(nodeText(n, " "))
	})

	return types.Document{
		PageContent: strings.Join(blocks, "\n\n"),
		Metadata:    meta,
	}, nil
}

// walk visits every node in the tree in document order.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// attr returns the value of the named attribute and whether it is present.
func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// hasClass reports whether the node's class attribute contains the token.
func hasClass(n *html.Node, class string) bool {
	val, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, token := range strings.Fields(val) {
		if token == class {
			return true
		}
	}
	return false
}

// insideNav reports whether any ancestor of the node is a nav element.
func insideNav(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Nav {
			return true
		}
	}
	return false
}

// nodeText joins the trimmed text of every descendant text node with sep,
// dropping empty runs.
func nodeText(n *html.Node, sep string) string {
	var parts []string
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			if t := strings.TrimSpace(c.Data); t != "" {
				parts = append(parts, t)
			}
		}
	})
	return strings.Join(parts, sep)
}

// tableText renders a table as pipe-delimited rows joined by newlines.
// Returns "" for tables with no cell text.
func tableText(table *html.Node) string {
	var rows []string
	walk(table, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Tr {
			return
		}
		var cells []string
		walk(n, func(c *html.Node) {
			if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
				cells = append(cells, nodeText(c, " "))
			}
		})
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, " | "))
		}
	})
	return strings.Join(rows, "\n")
}
