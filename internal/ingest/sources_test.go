// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hbellamy/iepgen/pkg/types"
)

// stubTransport serves a canned response for every request, keeping batch
// collection tests off the network.
type stubTransport struct {
	status int
	body   string
	err    error
}

func (s stubTransport) RoundTrip(*http.Request) (*http.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Header:     make(http.Header),
	}, nil
}

func stubClient(status int, body string, err error) *http.Client {
	return &http.Client{Transport: stubTransport{status: status, body: body, err: err}}
}

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry("data")

	wantKeys := []string{
		"computer_id_scientist",
		"data_scientist",
		"driver_sales_worker",
		"physican_surgeon",
		"retail_salesperson",
	}
	got := reg.Keys()
	if len(got) != len(wantKeys) {
		t.Fatalf("Keys() = %v, want %v", got, wantKeys)
	}
	for i, k := range wantKeys {
		if got[i] != k {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], k)
		}
	}

	for key, rec := range reg {
		if !strings.HasPrefix(rec.SourceDoc, filepath.Join("data", "career_profiles")) {
			t.Errorf("%s: SourceDoc = %q, want it under data/career_profiles", key, rec.SourceDoc)
		}
		if !strings.HasPrefix(rec.Source, "https://www.bls.gov/ooh/") {
			t.Errorf("%s: Source = %q, want a bls.gov occupation URL", key, rec.Source)
		}
	}
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "registry.yaml", `welder:
  source_doc: data/career_profiles/Welders_OOH.html
  source: https://www.bls.gov/ooh/production/welders-cutters-solderers-and-brazers.htm
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, ok := reg["welder"]
	if !ok {
		t.Fatal("expected welder record")
	}
	if rec.SourceDoc != "data/career_profiles/Welders_OOH.html" {
		t.Errorf("SourceDoc = %q", rec.SourceDoc)
	}
}

func TestLoadRegistryErrors(t *testing.T) {
	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", ":::bad\n")
	_, err := LoadRegistry(path)

	var pe *types.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("error = %v, want ParseError", err)
	}
}

func TestCollectUnsupportedOccupation(t *testing.T) {
	cfg := types.IngestConfig{DataDir: t.TempDir()}
	var out bytes.Buffer

	_, err := Collect(context.Background(), stubClient(200, "", nil), cfg,
		DefaultRegistry(cfg.DataDir), []string{"astronaut"}, &out)
	if err == nil {
		t.Fatal("expected error for unsupported occupation")
	}
	if !strings.Contains(err.Error(), `"astronaut"`) {
		t.Errorf("error %q does not name the bad key", err)
	}
	if !strings.Contains(err.Error(), "data_scientist") {
		t.Errorf("error %q does not list the supported set", err)
	}
}

func TestCollectPartialFailure(t *testing.T) {
	dir := t.TempDir()
	profile := writeFile(t, dir, "Data_Scientists_OOH.html", `<html><body>
<h1>Data Scientists</h1>
<p>Data scientists use analytical tools to extract meaning from data.</p>
</body></html>`)

	registry := Registry{
		"data_scientist": {SourceDoc: profile, Source: "https://www.bls.gov/ooh/math/data-scientists.htm"},
		"welder":         {SourceDoc: filepath.Join(dir, "absent.html"), Source: "https://www.bls.gov/ooh/production/welders.htm"},
	}
	cfg := types.IngestConfig{DataDir: dir}
	client := stubClient(200, "<html><body><p>Beginning not later than the first IEP.</p></body></html>", nil)

	var out bytes.Buffer
	result, err := Collect(context.Background(), client, cfg, registry, nil, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// data_scientist and IDEA collect; welder and the missing PDF fail.
	if result.Collected != 2 {
		t.Errorf("Collected = %d, want 2", result.Collected)
	}
	if result.Failed != 2 {
		t.Errorf("Failed = %d, want 2", result.Failed)
	}
	if result.Total() != 4 {
		t.Errorf("Total() = %d, want 4", result.Total())
	}
	if len(result.Chunks) == 0 {
		t.Fatal("expected chunks from the surviving sources")
	}

	categories := map[types.InfoCategory]bool{}
	for _, c := range result.Chunks {
		categories[c.Metadata.InfoCategory] = true
	}
	if !categories[types.CategoryCareerProfile] {
		t.Error("missing career_profile chunks")
	}
	if !categories[types.CategoryIDEA] {
		t.Error("missing idea chunks")
	}
	if categories[types.CategoryStateStandards] {
		t.Error("state_standards chunks present despite missing PDF")
	}

	log := out.String()
	for _, want := range []string{
		"collected data_scientist",
		"failed    welder",
		"failed    state_standards",
		"collected idea",
		"collected: 2, failed: 2",
	} {
		if !strings.Contains(log, want) {
			t.Errorf("summary output missing %q in:\n%s", want, log)
		}
	}
}

func TestCollectBadChunkParams(t *testing.T) {
	cfg := types.IngestConfig{DataDir: t.TempDir(), ChunkSize: 100, ChunkOverlap: 100}
	var out bytes.Buffer

	_, err := Collect(context.Background(), stubClient(200, "", nil), cfg,
		DefaultRegistry(cfg.DataDir), nil, &out)
	if err == nil {
		t.Error("expected error for overlap >= size")
	}
}

func TestParsePDFMissing(t *testing.T) {
	_, err := ParsePDF(filepath.Join(t.TempDir(), "absent.pdf"), types.CategoryStateStandards, nil)

	var nf *types.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestParsePDFCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "garbage.pdf", "not a pdf at all")

	_, err := ParsePDF(path, types.CategoryStateStandards, nil)

	var pe *types.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want ParseError", err)
	}
}
