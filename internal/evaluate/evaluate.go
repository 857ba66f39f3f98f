// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evaluate scores generated goal text against SMART-goal criteria
// and alignment to the student's career interest and the retrieved
// standards. Scoring is post hoc and advisory; it never blocks generation.
package evaluate

import (
	"regexp"
	"strings"

	"github.com/hbellamy/iepgen/internal/generate"
	"github.com/hbellamy/iepgen/pkg/types"
)

// measurableVerbs satisfy the Measurable criterion anywhere in the goal text.
var measurableVerbs = []string{"demonstrate", "perform", "complete", "respond"}

// temporalMarkers satisfy the Time-bound criterion within the short-term
// objectives segment specifically.
var temporalMarkers = []string{"weeks", "months", "by", "after high school", "semester", "trimester", "by the end of"}

// standardsPhrases satisfy the standards-alignment criterion when present in
// the retrieved state-standards chunks.
var standardsPhrases = []string{"customer service", "21st century skills", "occupational outlook", "transition planning"}

// achievablePattern matches quantified success criteria: percentages,
// "N out of M" ratios, Likert scales, and "as measured by" phrasing.
var achievablePattern = regexp.MustCompile(`[0-9]+\s*(%|percent)|\bpercent\b|\d+\s*out\s*of\s*\d+|likert scale|as\s+measured\s+by`)

// Evaluate scores one generated goal text against the seven-criterion
// rubric. It returns nil when the text is empty or carries the
// insufficient-evidence sentinel; callers should prefer the generator's own
// terminal state, but the sentinel check is preserved as a fallback.
func Evaluate(goalText string, profile types.StudentProfile, evidence types.RetrievalResult) types.GoalEvaluation {
	if goalText == "" || strings.Contains(goalText, generate.InsufficientEvidenceSentinel) {
		return nil
	}

	text := strings.ToLower(goalText)

	// Segment by the output template headers. Absent or reordered markers
	// degrade the affected segment to "", never to the whole text.
	annual := segment(text, strings.ToLower(generate.HeaderAnnualGoal), strings.ToLower(generate.HeaderObjectives))
	shortTerm := segment(text, strings.ToLower(generate.HeaderObjectives), strings.ToLower(generate.HeaderAlignment))

	eval := types.GoalEvaluation{
		types.CriterionSpecific:        containsName(text, profile.Name),
		types.CriterionMeasurable:      containsAny(text, measurableVerbs),
		types.CriterionAchievable:      achievablePattern.MatchString(annual + shortTerm),
		types.CriterionRelevant:        containsAnyLower(text, profile.InterestTerms()),
		types.CriterionTimeBound:       containsAny(shortTerm, temporalMarkers),
		types.CriterionCareerAlignment: containsAnyLower(text, nonEmpty(profile.CareerSuggestions, profile.PreferredEmployers, profile.ONetResults)),
		types.CriterionStandards: containsAny(
			strings.ToLower(evidence.ContentByCategory(types.CategoryStateStandards)), standardsPhrases),
	}
	return eval
}

// segment returns the text between the last occurrence of marker and the
// first subsequent occurrence of next, or "" when marker is absent.
func segment(text, marker, next string) string {
	i := strings.LastIndex(text, marker)
	if i < 0 {
		return ""
	}
	rest := text[i+len(marker):]
	if j := strings.Index(rest, next); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

func containsName(text, name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	return name != "" && strings.Contains(text, name)
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// containsAnyLower lowercases each candidate term before matching, skipping
// empty ones.
func containsAnyLower(text string, terms []string) bool {
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// nonEmpty filters out blank values.
func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
