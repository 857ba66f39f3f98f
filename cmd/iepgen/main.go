// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the iepgen CLI. Each pipeline stage is
// a subcommand: ingest builds the vector index from the domain documents,
// generate drafts coverage-checked IEP transition goals for one student, and
// chat answers free-form questions over the same index.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hbellamy/iepgen/internal/secrets"
	"github.com/hbellamy/iepgen/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// apiKey resolves the OpenAI API key: flag/config value first, then the
// OPENAI_API_KEY environment variable, then the .secrets/ directory.
func apiKey(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		return v
	}
	return loadedSecrets["openai-api-key"]
}

// rootCmd is the base command for the iepgen CLI.
var rootCmd = &cobra.Command{
	Use:   "iepgen",
	Short: "Evidence-grounded IEP transition goal drafting",
	Long: `iepgen drafts Individualized Education Program (IEP) transition goals for
students with disabilities, grounded in retrieved evidence: occupational
outlook career profiles, state educational standards, and IDEA regulatory
text. Goals are only drafted when the retrieved evidence covers the required
categories; otherwise iepgen says plainly what is missing.

Each stage is a subcommand: ingest, generate, chat.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; absence is not an error.
		godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./iepgen.yaml or ~/.config/iepgen/config.yaml)")
	rootCmd.PersistentFlags().String("index-dir", "index", "directory for the persisted vector index")
	rootCmd.PersistentFlags().String("embedding-model", "", "embedding model identifier")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("iepgen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "iepgen"))
		}
	}

	viper.SetEnvPrefix("IEPGEN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// embeddingConfig resolves the embedding provider settings from flags,
// config file, and secrets.
func embeddingConfig(cmd *cobra.Command) types.EmbeddingConfig {
	model, _ := cmd.Flags().GetString("embedding-model")
	if model == "" {
		model = viper.GetString("embedding.model")
	}
	return types.EmbeddingConfig{
		AIConfig: types.AIConfig{
			Model:  model,
			APIKey: apiKey(viper.GetString("embedding.api_key")),
		},
		MaxConcurrent: viper.GetInt("embedding.max_concurrent"),
	}
}

// httpConfig resolves shared HTTP settings.
func httpConfig() types.HTTPConfig {
	timeout := viper.GetDuration("ingest.timeout")
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return types.HTTPConfig{
		Timeout:   timeout,
		UserAgent: viper.GetString("ingest.user_agent"),
	}
}

func indexDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("index-dir")
	if dir == "" {
		dir = "index"
	}
	return dir
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
