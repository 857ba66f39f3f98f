// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate drafts IEP transition goals and answers free-form
// questions over the vector index. Goal drafting is coverage-checked: the
// model is never invoked unless the retrieved evidence spans the required
// information categories, and insufficient evidence is reported as a
// designed terminal outcome, not an error.
package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/hbellamy/iepgen/internal/index"
	"github.com/hbellamy/iepgen/pkg/types"
)

// ChatBackend abstracts the generative model so tests can supply a mock.
type ChatBackend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// State is the terminal state of one goal-generation request.
type State string

const (
	// StateGenerated means the coverage gates passed and the model
	// produced a goal document.
	StateGenerated State = "generated"

	// StateNoEvidence means retrieval returned nothing; no model call was made.
	StateNoEvidence State = "no_evidence"

	// StatePartialEvidence means retrieval returned chunks but at least
	// one required category was absent; no model call was made.
	StatePartialEvidence State = "partial_evidence"

	// StateNoCareerEvidence means the career-profile gate failed on its
	// own; no model call was made. Kept as a distinct safeguard against
	// drafting goals ungrounded in any occupation evidence.
	StateNoCareerEvidence State = "no_career_evidence"
)

// GoalResult is the outcome of one generation request. The retrieved
// evidence is always attached, including for insufficient-evidence states,
// so callers can inspect and audit what the decision was based on.
type GoalResult struct {
	// State is the terminal state reached.
	State State

	// GoalText is the raw model response. Set only when State is
	// StateGenerated.
	GoalText string

	// Message is the user-facing explanation for insufficient-evidence
	// states. Empty when State is StateGenerated.
	Message string

	// MissingCategories lists the required categories absent from the
	// evidence, for StatePartialEvidence and StateNoCareerEvidence.
	MissingCategories []types.InfoCategory

	// Evidence is the retrieval result the decision or draft was grounded on.
	Evidence types.RetrievalResult
}

// coverageRule gates generation on the presence of evidence categories.
// Rules are checked in order; the first rule with missing categories
// terminates the request in its state.
type coverageRule struct {
	categories []types.InfoCategory
	state      State
}

var coverageRules = []coverageRule{
	{categories: types.RequiredCategories, state: StatePartialEvidence},
	// Redundant career-profile gate, kept as an independent safeguard.
	{categories: []types.InfoCategory{types.CategoryCareerProfile}, state: StateNoCareerEvidence},
}

// Generator drafts coverage-checked IEP goals against one immutable index.
// Construct it once at process start and share it across requests; it holds
// no per-request state.
type Generator struct {
	index   *index.VectorIndex
	backend ChatBackend
	cfg     types.GenerationConfig
}

// NewGenerator builds a Generator over an index and a chat backend.
func NewGenerator(idx *index.VectorIndex, backend ChatBackend, cfg types.GenerationConfig) *Generator {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.ChatTopK <= 0 {
		cfg.ChatTopK = 3
	}
	return &Generator{index: idx, backend: backend, cfg: cfg}
}

// GenerateGoals runs one coverage-checked generation request: retrieve,
// gate on evidence coverage, then draft. k overrides the configured
// retrieval breadth when positive; minSimilarity excludes low-scoring
// chunks when above index.NoSimilarityFloor. Model failures surface as a
// GenerationError; insufficient evidence is a GoalResult, not an error.
func (g *Generator) GenerateGoals(ctx context.Context, profile types.StudentProfile, k int, minSimilarity float32) (*GoalResult, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = g.cfg.TopK
	}

	evidence, err := g.index.Search(ctx, RetrievalQuery(profile), k, minSimilarity)
	if err != nil {
		return nil, err
	}

	if len(evidence) == 0 {
		return &GoalResult{
			State: StateNoEvidence,
			Message: fmt.Sprintf(
				"No relevant document was found for the specified career interest(s) or suggestion(s): %s.",
				profile.CareerSuggestions),
		}, nil
	}

	for _, rule := range coverageRules {
		missing := evidence.MissingCategories(rule.categories)
		if len(missing) == 0 {
			continue
		}
		return &GoalResult{
			State:             rule.state,
			Message:           partialEvidenceMessage(profile, missing),
			MissingCategories: missing,
			Evidence:          evidence,
		}, nil
	}

	prompt, err := renderGoalPrompt(profile, evidence)
	if err != nil {
		return nil, err
	}

	response, err := g.backend.Complete(ctx, prompt)
	if err != nil {
		return nil, &types.GenerationError{Err: err}
	}

	return &GoalResult{
		State:    StateGenerated,
		GoalText: response,
		Evidence: evidence,
	}, nil
}

// RetrievalQuery is the fixed evidence query for one student's goal request.
// Evaluation uses the same query so rubric scoring sees the evidence the
// generator would have drafted from.
func RetrievalQuery(profile types.StudentProfile) string {
	return fmt.Sprintf(
		"IEP goals, IEP transition plan, disabilities act, academic standards, career profiles for %s.",
		profile.CareerSuggestions)
}

// partialEvidenceMessage names the unmatched career suggestions and the
// exact categories evidence was missing for.
func partialEvidenceMessage(profile types.StudentProfile, missing []types.InfoCategory) string {
	names := make([]string, len(missing))
	for i, c := range missing {
		names[i] = string(c)
	}
	return fmt.Sprintf(
		"%s:\n- the specific career interest(s) or suggestion(s): %s\n- in the categories: %s\n",
		InsufficientEvidenceSentinel, profile.CareerSuggestions, strings.Join(names, "; "))
}
