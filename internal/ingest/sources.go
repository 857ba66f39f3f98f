// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/hbellamy/iepgen/internal/chunk"
	"github.com/hbellamy/iepgen/pkg/types"
)

// SourceRecord maps one occupation to its local snapshot and canonical URL.
// Records are read-only configuration.
type SourceRecord struct {
	// SourceDoc is the local HTML snapshot of the occupation page.
	SourceDoc string `yaml:"source_doc"`

	// Source is the canonical URL the snapshot was taken from.
	Source string `yaml:"source"`
}

// Registry maps occupation keys to their source records.
type Registry map[string]SourceRecord

// Fixed always-included sources: the state-standards PDF ships alongside the
// career profiles, the IDEA regulations page is fetched live.
const (
	StandardsFile = "State_Educational_Standards_IOWA_k-12.pdf"
	IDEAURL       = "https://sites.ed.gov/idea/regs/b/d/300.320/b"
)

// DefaultRegistry returns the built-in occupation registry rooted at
// dataDir. Occupation snapshots live under dataDir/career_profiles/.
func DefaultRegistry(dataDir string) Registry {
	profiles := filepath.Join(dataDir, "career_profiles")
	return Registry{
		"retail_salesperson": {
			SourceDoc: filepath.Join(profiles, "Retail_Sales_WorkersOOH.html"),
			Source:    "https://www.bls.gov/ooh/sales/retail-sales-workers.htm",
		},
		"driver_sales_worker": {
			SourceDoc: filepath.Join(profiles, "Delivery_Truck_Drivers_and_Driver_Sales_WorkersOOH.html"),
			Source:    "https://www.bls.gov/ooh/transportation-and-material-moving/delivery-truck-drivers-and-driver-sales-workers.htm",
		},
		"computer_id_scientist": {
			SourceDoc: filepath.Join(profiles, "Computer_and_Information_Research_Scientists_OOH.html"),
			Source:    "https://www.bls.gov/ooh/computer-and-information-technology/computer-and-information-research-scientists.htm",
		},
		"physican_surgeon": {
			SourceDoc: filepath.Join(profiles, "Physicians_and_Surgeons_OOH.html"),
			Source:    "https://www.bls.gov/ooh/healthcare/physicians-and-surgeons.htm",
		},
		"data_scientist": {
			SourceDoc: filepath.Join(profiles, "Data_Scientists_OOH.html"),
			Source:    "https://www.bls.gov/ooh/math/data-scientists.htm",
		},
	}
}

// LoadRegistry reads an occupation registry from a YAML file.
func LoadRegistry(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, &types.ParseError{Source: path, Err: err}
	}
	return reg, nil
}

// Keys returns the supported occupation keys in sorted order.
func (r Registry) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CollectResult holds the outcome of a batch collection run.
type CollectResult struct {
	Chunks    []types.Chunk
	Collected int
	Failed    int
}

// Total returns the number of sources processed.
func (r CollectResult) Total() int {
	return r.Collected + r.Failed
}

// Collect extracts and chunks every requested occupation profile plus the
// two always-included sources (state-standards PDF and IDEA regulations
// page). A nil or empty occupations slice selects every registered
// occupation. An unsupported key fails fast naming the supported set; any
// other per-source failure is reported to w and counted, never aborting the
// batch.
func Collect(ctx context.Context, client *http.Client, cfg types.IngestConfig, registry Registry, occupations []string, w io.Writer) (CollectResult, error) {
	if len(registry) == 0 {
		registry = DefaultRegistry(cfg.DataDir)
	}
	if len(occupations) == 0 {
		occupations = registry.Keys()
	}

	for _, occ := range occupations {
		if _, ok := registry[occ]; !ok {
			return CollectResult{}, fmt.Errorf(
				"unsupported occupation %q: must be one of %s", occ, strings.Join(registry.Keys(), ", "))
		}
	}

	splitter, err := chunk.NewSplitter(orDefault(cfg.ChunkSize, chunk.DefaultChunkSize),
		orDefault(cfg.ChunkOverlap, chunk.DefaultChunkOverlap))
	if err != nil {
		return CollectResult{}, err
	}

	var result CollectResult

	// Career profile snapshots, one Document each, chunked together.
	var careerDocs []types.Document
	for _, occ := range occupations {
		rec := registry[occ]
		doc, err := ExtractFile(rec.SourceDoc, &types.Metadata{
			Source:       rec.Source,
			SourceDoc:    rec.SourceDoc,
			InfoCategory: types.CategoryCareerProfile,
		})
		if err != nil {
			fmt.Fprintf(w, "failed    %s: %v\n", occ, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "collected %s\n", occ)
		result.Collected++
		careerDocs = append(careerDocs, doc)
	}
	result.Chunks = append(result.Chunks, splitter.SplitDocuments(careerDocs)...)

	// State educational standards PDF.
	standardsPath := filepath.Join(cfg.DataDir, StandardsFile)
	standards, err := ParsePDF(standardsPath, types.CategoryStateStandards, splitter)
	if err != nil {
		fmt.Fprintf(w, "failed    state_standards: %v\n", err)
		result.Failed++
	} else {
		fmt.Fprintf(w, "collected state_standards (%d chunks)\n", len(standards))
		result.Collected++
		result.Chunks = append(result.Chunks, standards...)
	}

	// IDEA Sec. 300.320(b) regulations page.
	idea, err := ExtractURL(ctx, client, IDEAURL, cfg.HTTPConfig, &types.Metadata{
		Source:       IDEAURL,
		InfoCategory: types.CategoryIDEA,
	})
	if err != nil {
		fmt.Fprintf(w, "failed    idea: %v\n", err)
		result.Failed++
	} else {
		fmt.Fprintf(w, "collected idea\n")
		result.Collected++
		result.Chunks = append(result.Chunks, splitter.SplitDocuments([]types.Document{idea})...)
	}

	fmt.Fprintf(w, "\ncollected: %d, failed: %d (%d chunks)\n",
		result.Collected, result.Failed, len(result.Chunks))

	return result, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
