// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hbellamy/iepgen/internal/embed"
	"github.com/hbellamy/iepgen/internal/index"
	"github.com/hbellamy/iepgen/internal/ingest"
	"github.com/hbellamy/iepgen/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [occupation...]",
	Short: "Collect domain documents and build the vector index",
	Long: `Ingest extracts and chunks the occupation career profiles, the
state-standards PDF, and the IDEA regulations page, embeds the chunks, and
persists the vector index. With no arguments every registered occupation is
ingested; otherwise only the named ones.

Rebuilds are monolithic: the whole index is replaced on every run.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("data-dir", "data", "base directory for source documents")
	ingestCmd.Flags().String("registry", "", "YAML file overriding the built-in occupation registry")
	ingestCmd.Flags().Int("chunk-size", 0, "maximum characters per chunk (default 500)")
	ingestCmd.Flags().Int("chunk-overlap", 0, "character overlap between adjacent chunks (default 100)")
	ingestCmd.Flags().Bool("list", false, "list supported occupations and exit")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := ingestConfig(cmd)

	registry := ingest.DefaultRegistry(cfg.DataDir)
	if cfg.RegistryPath != "" {
		var err error
		registry, err = ingest.LoadRegistry(cfg.RegistryPath)
		if err != nil {
			return err
		}
	}

	if list, _ := cmd.Flags().GetBool("list"); list {
		for _, key := range registry.Keys() {
			fmt.Println(key)
		}
		return nil
	}

	ctx := context.Background()
	client := &http.Client{Timeout: cfg.Timeout}

	result, err := ingest.Collect(ctx, client, cfg, registry, args, os.Stdout)
	if err != nil {
		return err
	}
	if len(result.Chunks) == 0 {
		return fmt.Errorf("no chunks collected: %d source(s) failed", result.Failed)
	}

	embedder, err := embed.NewOpenAI(embeddingConfig(cmd))
	if err != nil {
		return err
	}

	fmt.Printf("embedding %d chunks with %s\n", len(result.Chunks), embedder.Model())
	idx, err := index.Build(ctx, result.Chunks, embedder)
	if err != nil {
		return err
	}

	dir := indexDir(cmd)
	if err := idx.Save(dir); err != nil {
		return err
	}
	fmt.Printf("index written to %s (%d chunks)\n", dir, idx.Len())
	return nil
}

func ingestConfig(cmd *cobra.Command) types.IngestConfig {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("ingest.data_dir")
	}
	registryPath, _ := cmd.Flags().GetString("registry")
	chunkSize, _ := cmd.Flags().GetInt("chunk-size")
	chunkOverlap, _ := cmd.Flags().GetInt("chunk-overlap")

	return types.IngestConfig{
		HTTPConfig:   httpConfig(),
		DataDir:      dataDir,
		RegistryPath: registryPath,
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
	}
}
