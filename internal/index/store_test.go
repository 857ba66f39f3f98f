// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hbellamy/iepgen/pkg/types"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	embedder := testEmbedder()

	built, err := Build(ctx, testChunks(), embedder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir := t.TempDir()
	if err := built.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(dir, embedder)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != built.Len() {
		t.Fatalf("loaded %d chunks, want %d", loaded.Len(), built.Len())
	}

	for i := range built.chunks {
		if loaded.chunks[i].PageContent != built.chunks[i].PageContent {
			t.Errorf("chunk %d content = %q, want %q", i, loaded.chunks[i].PageContent, built.chunks[i].PageContent)
		}
		if loaded.chunks[i].Metadata.InfoCategory != built.chunks[i].Metadata.InfoCategory {
			t.Errorf("chunk %d category = %q, want %q", i, loaded.chunks[i].Metadata.InfoCategory, built.chunks[i].Metadata.InfoCategory)
		}
	}

	// Extra metadata survives the JSON round trip.
	if got := loaded.chunks[1].Metadata.Extra["page"]; got != "3" {
		t.Errorf("Extra[page] = %q, want %q", got, "3")
	}

	// A loaded index answers queries identically to the built one.
	want, err := built.Search(ctx, "careers in retail sales", 2, NoSimilarityFloor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := loaded.Search(ctx, "careers in retail sales", 2, NoSimilarityFloor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded search returned %d results, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Chunk.PageContent != want[i].Chunk.PageContent {
			t.Errorf("result %d = %q, want %q", i, got[i].Chunk.PageContent, want[i].Chunk.PageContent)
		}
		if diff := got[i].Score - want[i].Score; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("result %d score = %v, want %v", i, got[i].Score, want[i].Score)
		}
	}
}

func TestSaveReplacesPreviousIndex(t *testing.T) {
	ctx := context.Background()
	embedder := testEmbedder()
	dir := t.TempDir()

	first, err := Build(ctx, testChunks(), embedder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := first.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second, err := Build(ctx, testChunks()[:1], embedder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := second.Save(dir); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	loaded, err := Load(dir, embedder)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != 1 {
		t.Errorf("loaded %d chunks after rebuild, want 1", loaded.Len())
	}
}

func TestLoadMissingIndex(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "no-index"), newFakeEmbedder())

	var le *types.IndexLoadError
	if !errors.As(err, &le) {
		t.Fatalf("error = %v, want IndexLoadError", err)
	}
}

func TestLoadModelMismatch(t *testing.T) {
	ctx := context.Background()
	embedder := testEmbedder()
	dir := t.TempDir()

	idx, err := Build(ctx, testChunks(), embedder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := idx.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	other := newFakeEmbedder()
	other.model = "different-model"
	_, err = Load(dir, other)

	var le *types.IndexLoadError
	if !errors.As(err, &le) {
		t.Fatalf("error = %v, want IndexLoadError", err)
	}
	if !strings.Contains(err.Error(), "different-model") {
		t.Errorf("error %q does not name the mismatched model", err)
	}
}

func TestLoadDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	embedder := testEmbedder()
	dir := t.TempDir()

	idx, err := Build(ctx, testChunks(), embedder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := idx.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	other := testEmbedder()
	other.dim = 1536
	_, err = Load(dir, other)

	var le *types.IndexLoadError
	if !errors.As(err, &le) {
		t.Fatalf("error = %v, want IndexLoadError", err)
	}
}

func TestLoadCorruptManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, manifestFile), []byte(":::bad\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir, newFakeEmbedder())

	var le *types.IndexLoadError
	if !errors.As(err, &le) {
		t.Fatalf("error = %v, want IndexLoadError", err)
	}
}

func TestVectorCodec(t *testing.T) {
	in := []float32{0.25, -1.5, 3.1415927, 0}
	out, err := decodeVector(encodeVector(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("decoded %d values, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("value %d = %v, want %v", i, out[i], in[i])
		}
	}

	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated blob")
	}
}
