// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hbellamy/iepgen/pkg/types"
)

// writeFile is a test helper that creates a file with the given content.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const occupationPage = `<html><body>
<nav>
  <div class="reportsection">navigation noise</div>
  <li class="nav-item">menu entry</li>
</nav>
<h1>Data Scientists</h1>
<h2>What Data Scientists Do</h2>
<h4>A level-four heading</h4>
<p>Data scientists use analytical tools to extract meaning from data.</p>
<p class="visually-hidden">screen reader scaffolding</p>
<ul>
  <li class="ooh-quick-fact">Median pay: $108,020 per year</li>
  <li>decorative bullet without a class</li>
</ul>
<table>
  <tr><th>Quick Facts</th><th>Value</th></tr>
  <tr><td>2023 Median Pay</td><td>$108,020</td></tr>
</table>
<div class="order-2 flex-grow-1">Job outlook is strong.</div>
<div class="order-2 flex-grow-1 dropdown-menu">dropdown noise</div>
<div class="order-2 flex-grow-1 visually-hidden">hidden noise</div>
<div class="reportsection">Work environment varies by employer.</div>
</body></html>`

func TestExtractFileAllowlist(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "occupation.html", occupationPage)

	doc, err := ExtractFile(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantBlocks := []string{
		"Data Scientists",
		"What Data Scientists Do",
		"Data scientists use analytical tools to extract meaning from data.",
		"Median pay: $108,020 per year",
		"Quick Facts | Value\n2023 Median Pay | $108,020",
		"Job outlook is strong.",
		"Work environment varies by employer.",
	}
	for _, want := range wantBlocks {
		if !strings.Contains(doc.PageContent, want) {
			t.Errorf("extracted content missing %q", want)
		}
	}

	dropped := []string{
		"A level-four heading",
		"screen reader scaffolding",
		"decorative bullet without a class",
		"dropdown noise",
		"hidden noise",
		"navigation noise",
	}
	for _, bad := range dropped {
		if strings.Contains(doc.PageContent, bad) {
			t.Errorf("extracted content should not contain %q", bad)
		}
	}

	// Nav list items carry a class, so pass 1 keeps them even though the
	// container passes drop nav-nested divs.
	if !strings.Contains(doc.PageContent, "menu entry") {
		t.Error("classed list item inside nav should survive pass 1")
	}
}

func TestExtractFileBlockOrderAndJoin(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "page.html", `<html><body>
<h1>First</h1><p>Second</p>
<div class="reportsection">Fourth</div>
<table><tr><td>Third</td></tr></table>
</body></html>`)

	doc, err := ExtractFile(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Passes run in order: allowlist tags, then tables, then containers.
	want := "First\n\nSecond\n\nThird\n\nFourth"
	if doc.PageContent != want {
		t.Errorf("PageContent = %q, want %q", doc.PageContent, want)
	}
}

func TestExtractFileMetadata(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "page.html", "<html><body><p>content</p></body></html>")

	doc, err := ExtractFile(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Metadata.SourceDoc != path {
		t.Errorf("default SourceDoc = %q, want %q", doc.Metadata.SourceDoc, path)
	}

	meta := &types.Metadata{
		Source:       "https://www.bls.gov/ooh/math/data-scientists.htm",
		SourceDoc:    path,
		InfoCategory: types.CategoryCareerProfile,
	}
	doc, err = ExtractFile(path, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Metadata.Source != meta.Source || doc.Metadata.SourceDoc != meta.SourceDoc ||
		doc.Metadata.InfoCategory != meta.InfoCategory {
		t.Errorf("Metadata = %+v, want %+v", doc.Metadata, *meta)
	}
}

func TestExtractFileMissing(t *testing.T) {
	_, err := ExtractFile(filepath.Join(t.TempDir(), "absent.html"), nil)

	var nf *types.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestExtractURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != DefaultUserAgent {
			t.Errorf("User-Agent = %q, want the browser default", r.Header.Get("User-Agent"))
		}
		w.Write([]byte("<html><body><h1>Remote</h1><p>Fetched content.</p></body></html>"))
	}))
	defer srv.Close()

	doc, err := ExtractURL(context.Background(), srv.Client(), srv.URL, types.HTTPConfig{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(doc.PageContent, "Fetched content.") {
		t.Errorf("PageContent = %q, missing fetched text", doc.PageContent)
	}
	if doc.Metadata.Source != srv.URL {
		t.Errorf("default Source = %q, want %q", doc.Metadata.Source, srv.URL)
	}
}

func TestExtractURLHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := ExtractURL(context.Background(), srv.Client(), srv.URL, types.HTTPConfig{}, nil)

	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v, want FetchError", err)
	}
	if fe.URL != srv.URL {
		t.Errorf("FetchError.URL = %q, want %q", fe.URL, srv.URL)
	}
}
