// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Rubric criterion names. Each maps to one boolean in a GoalEvaluation.
const (
	CriterionSpecific        = "Specific"
	CriterionMeasurable      = "Measurable"
	CriterionAchievable      = "Achievable"
	CriterionRelevant        = "Relevant"
	CriterionTimeBound       = "Time-bound"
	CriterionCareerAlignment = "Aligned with Career Interest"
	CriterionStandards       = "Aligned with Standards"
)

// Criteria lists the rubric criterion names in report order.
var Criteria = []string{
	CriterionSpecific,
	CriterionMeasurable,
	CriterionAchievable,
	CriterionRelevant,
	CriterionTimeBound,
	CriterionCareerAlignment,
	CriterionStandards,
}

// GoalEvaluation maps each rubric criterion to pass/fail for one generated
// goal text. Purely advisory; it never blocks generation.
type GoalEvaluation map[string]bool

// Score returns the number of criteria that passed, out of len(Criteria).
func (e GoalEvaluation) Score() int {
	n := 0
	for _, pass := range e {
		if pass {
			n++
		}
	}
	return n
}
