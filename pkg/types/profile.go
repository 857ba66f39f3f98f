// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// StudentProfile is a single student's intake record. Constructed once per
// request and never mutated.
type StudentProfile struct {
	// Name is the student's name as it should appear in drafted goals.
	Name string `json:"name" yaml:"name"`

	// Age is the student's age in years.
	Age int `json:"age" yaml:"age"`

	// Grade is the student's current grade level.
	Grade string `json:"grade" yaml:"grade"`

	// CareerInterest is the student's career interest or category, as a
	// comma-separated list of terms (e.g. "Retail Sales, Customer Service").
	CareerInterest string `json:"career_interest" yaml:"career_interest"`

	// LearningPreferences describes how the student learns best.
	LearningPreferences string `json:"learning_preferences" yaml:"learning_preferences"`

	// ONetResults is the O*Net Interest Profiler result string.
	ONetResults string `json:"onet_results" yaml:"onet_results"`

	// CareerSuggestions lists suggested occupations from assessment.
	CareerSuggestions string `json:"career_suggestions" yaml:"career_suggestions"`

	// PreferredEmployers lists employers the student has expressed interest in.
	PreferredEmployers string `json:"preferred_employers" yaml:"preferred_employers"`
}

// Validate checks the minimum fields a goal-generation request needs: a grade
// level and at least one of career suggestions or O*Net results.
func (p StudentProfile) Validate() error {
	if strings.TrimSpace(p.Grade) == "" {
		return fmt.Errorf("student profile: grade is required")
	}
	if strings.TrimSpace(p.CareerSuggestions) == "" && strings.TrimSpace(p.ONetResults) == "" {
		return fmt.Errorf("student profile: at least one career suggestion or O*Net result is required")
	}
	return nil
}

// InterestTerms splits the career interest field on commas and trims each
// term. Empty terms are dropped.
func (p StudentProfile) InterestTerms() []string {
	var terms []string
	for _, t := range strings.Split(p.CareerInterest, ",") {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
