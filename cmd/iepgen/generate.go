// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hbellamy/iepgen/internal/embed"
	"github.com/hbellamy/iepgen/internal/evaluate"
	"github.com/hbellamy/iepgen/internal/generate"
	"github.com/hbellamy/iepgen/internal/index"
	"github.com/hbellamy/iepgen/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft coverage-checked IEP transition goals for one student",
	Long: `Generate retrieves evidence for the student's career suggestions and
drafts IEP transition goals grounded in it. Goals are only drafted when the
evidence covers both career-profile and state-standards categories;
otherwise the missing categories are reported and no model call is made.`,
	RunE: runGenerate,
}

// addProfileFlags registers the StudentProfile flags shared by generate and
// evaluate.
func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "student name")
	cmd.Flags().Int("age", 0, "student age")
	cmd.Flags().String("grade", "", "student grade level (required)")
	cmd.Flags().String("career-interest", "", "career interest or category, comma-separated")
	cmd.Flags().String("learning-preferences", "", "learning preferences")
	cmd.Flags().String("onet-results", "", "O*Net Interest Profiler results")
	cmd.Flags().String("career-suggestions", "", "suggested occupations from assessment")
	cmd.Flags().String("preferred-employers", "", "employers the student is interested in")
}

func init() {
	addProfileFlags(generateCmd)
	generateCmd.Flags().Int("k", 0, "retrieval breadth (default 5)")
	generateCmd.Flags().Float32("min-similarity", 0, "exclude retrieved chunks scoring below this cosine similarity")
	generateCmd.Flags().String("model", "", "chat model identifier for generation")
	generateCmd.Flags().Bool("evaluate", false, "score the generated goals against the SMART rubric")
	generateCmd.Flags().Bool("show-evidence", false, "print the retrieved evidence chunks")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	profile := profileFromFlags(cmd)

	gen, err := newGenerator(cmd)
	if err != nil {
		return err
	}

	k, _ := cmd.Flags().GetInt("k")
	minSim, _ := cmd.Flags().GetFloat32("min-similarity")
	if minSim <= 0 {
		minSim = generationConfig(cmd).MinSimilarity
	}
	floor := index.NoSimilarityFloor
	if minSim > 0 {
		floor = minSim
	}

	result, err := gen.GenerateGoals(context.Background(), profile, k, floor)
	if err != nil {
		return err
	}

	if result.State != generate.StateGenerated {
		fmt.Println(result.Message)
	} else {
		fmt.Println(result.GoalText)
	}

	if show, _ := cmd.Flags().GetBool("show-evidence"); show {
		printEvidence(result.Evidence)
	}

	if doEval, _ := cmd.Flags().GetBool("evaluate"); doEval && result.State == generate.StateGenerated {
		eval := evaluate.Evaluate(result.GoalText, profile, result.Evidence)
		printEvaluation(eval)
	}
	return nil
}

// newGenerator loads the persisted index and wires the chat backend.
func newGenerator(cmd *cobra.Command) (*generate.Generator, error) {
	embedder, err := embed.NewOpenAI(embeddingConfig(cmd))
	if err != nil {
		return nil, err
	}

	idx, err := index.Load(indexDir(cmd), embedder)
	if err != nil {
		return nil, err
	}

	backend, err := generate.NewOpenAIBackend(generationConfig(cmd).AIConfig)
	if err != nil {
		return nil, err
	}

	return generate.NewGenerator(idx, backend, generationConfig(cmd)), nil
}

func generationConfig(cmd *cobra.Command) types.GenerationConfig {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("generation.model")
	}
	return types.GenerationConfig{
		AIConfig: types.AIConfig{
			Model:  model,
			APIKey: apiKey(viper.GetString("generation.api_key")),
		},
		TopK:          viper.GetInt("generation.top_k"),
		ChatTopK:      viper.GetInt("generation.chat_top_k"),
		MinSimilarity: float32(viper.GetFloat64("generation.min_similarity")),
	}
}

func profileFromFlags(cmd *cobra.Command) types.StudentProfile {
	name, _ := cmd.Flags().GetString("name")
	age, _ := cmd.Flags().GetInt("age")
	grade, _ := cmd.Flags().GetString("grade")
	interest, _ := cmd.Flags().GetString("career-interest")
	prefs, _ := cmd.Flags().GetString("learning-preferences")
	onet, _ := cmd.Flags().GetString("onet-results")
	suggestions, _ := cmd.Flags().GetString("career-suggestions")
	employers, _ := cmd.Flags().GetString("preferred-employers")

	return types.StudentProfile{
		Name:                name,
		Age:                 age,
		Grade:               grade,
		CareerInterest:      interest,
		LearningPreferences: prefs,
		ONetResults:         onet,
		CareerSuggestions:   suggestions,
		PreferredEmployers:  employers,
	}
}

func printEvidence(evidence types.RetrievalResult) {
	fmt.Printf("\n--- evidence (%d chunks) ---\n", len(evidence))
	for i, sc := range evidence {
		content := sc.Chunk.PageContent
		if len(content) > 120 {
			content = content[:120] + "..."
		}
		fmt.Printf("%2d. [%s] %.3f  %s\n", i+1, sc.Chunk.Metadata.InfoCategory, sc.Score, content)
	}
}

func printEvaluation(eval types.GoalEvaluation) {
	if eval == nil {
		fmt.Println("\nevaluation: nothing to score")
		return
	}
	fmt.Println("\n--- evaluation ---")
	for _, criterion := range types.Criteria {
		mark := "fail"
		if eval[criterion] {
			mark = "pass"
		}
		fmt.Printf("%-30s %s\n", criterion, mark)
	}
	fmt.Printf("Total Score: %d/%d\n", eval.Score(), len(types.Criteria))
}
