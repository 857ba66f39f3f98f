// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hbellamy/iepgen/internal/embed"
	"github.com/hbellamy/iepgen/internal/evaluate"
	"github.com/hbellamy/iepgen/internal/generate"
	"github.com/hbellamy/iepgen/internal/index"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [goal-file]",
	Short: "Score an existing goal text against the SMART rubric",
	Long: `Evaluate scores a previously generated goal text against the SMART
rubric plus career and standards alignment. The text is read from the given
file, or from stdin when no file is named. Standards alignment is checked
against evidence retrieved for the same student, so the profile flags should
match the ones the goals were generated with.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvaluate,
}

func init() {
	addProfileFlags(evaluateCmd)
	evaluateCmd.Flags().Int("k", 0, "retrieval breadth (default 5)")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	var (
		text []byte
		err  error
	)
	if len(args) == 1 {
		text, err = os.ReadFile(args[0])
	} else {
		text, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading goal text: %w", err)
	}

	profile := profileFromFlags(cmd)

	embedder, err := embed.NewOpenAI(embeddingConfig(cmd))
	if err != nil {
		return err
	}
	idx, err := index.Load(indexDir(cmd), embedder)
	if err != nil {
		return err
	}

	k, _ := cmd.Flags().GetInt("k")
	if k <= 0 {
		k = 5
	}
	evidence, err := idx.Search(context.Background(), generate.RetrievalQuery(profile), k, index.NoSimilarityFloor)
	if err != nil {
		return err
	}

	printEvaluation(evaluate.Evaluate(string(text), profile, evidence))
	return nil
}
