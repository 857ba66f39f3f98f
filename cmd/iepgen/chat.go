// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hbellamy/iepgen/internal/generate"
	"github.com/hbellamy/iepgen/pkg/types"
)

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask free-form questions over the indexed documents",
	Long: `Chat answers questions strictly from the indexed evidence. With a
question argument it answers once and exits; with no argument it reads
questions interactively until "exit". Unlike generate, no coverage gate
applies: when the context does not cover the question, the answer says so.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().Bool("sources", false, "print the retrieved source chunks with each answer")
	chatCmd.Flags().String("model", "", "chat model identifier")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	gen, err := newGenerator(cmd)
	if err != nil {
		return err
	}

	showSources, _ := cmd.Flags().GetBool("sources")
	ctx := context.Background()

	if len(args) > 0 {
		return askOnce(ctx, gen, strings.Join(args, " "), showSources)
	}

	fmt.Println("Type 'exit' to end the session.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if strings.EqualFold(question, "exit") {
			return nil
		}
		if err := askOnce(ctx, gen, question, showSources); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
}

func askOnce(ctx context.Context, gen *generate.Generator, question string, showSources bool) error {
	answer, evidence, err := gen.Ask(ctx, question)
	if err != nil {
		return err
	}
	fmt.Println(answer)
	if showSources {
		printSources(evidence)
	}
	return nil
}

func printSources(evidence types.RetrievalResult) {
	fmt.Println("\nSource chunks:")
	for i, sc := range evidence {
		content := sc.Chunk.PageContent
		if len(content) > 100 {
			content = content[:100] + "..."
		}
		fmt.Printf("  %d. %s\n", i+1, content)
	}
}
