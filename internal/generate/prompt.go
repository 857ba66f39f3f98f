// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"strings"
	"text/template"

	"github.com/hbellamy/iepgen/pkg/types"
)

// Output template section headers. The evaluator segments generated goal
// text by these literal strings (matched case-insensitively), so they are a
// versioned contract: changing one here changes it for every consumer.
const (
	HeaderPostsecondary = "Postsecondary Goal:"
	HeaderEmployment    = "Employment"
	HeaderEducation     = "Education/Training"
	HeaderAnnualGoal    = "Annual IEP Goal:"
	HeaderObjectives    = "Short-Term Objectives:"
	HeaderAlignment     = "Alignment to Standards:"
)

// SectionHeaders lists the template headings in output order.
var SectionHeaders = []string{
	HeaderPostsecondary,
	HeaderEmployment,
	HeaderEducation,
	HeaderAnnualGoal,
	HeaderObjectives,
	HeaderAlignment,
}

// InsufficientEvidenceSentinel opens every partial-evidence message. The
// evaluator recognizes it as a non-goal text and declines to score it.
const InsufficientEvidenceSentinel = "No relevant document could be found for"

// FallbackAnswer is the chat QA reply when the retrieved context does not
// cover the question.
const FallbackAnswer = "I don't have enough information to answer this question."

// goalPromptInput carries the student profile and retrieved evidence into
// the goal prompt template.
type goalPromptInput struct {
	types.StudentProfile
	RetrievedContext string
}

var goalPrompt = template.Must(template.New("goals").Parse(`You are an IEP transition planning expert. Based on the provided student profile and assessment data, use the retrieved documents (including standards from the Occupational Outlook Handbook, 21st Century Skills, and IEP templates) to generate compliant, well-structured Individualized Education Program (IEP) goals for a student with disabilities that align with industry standards and educational frameworks.

---

## Student Information:
- Name: {{.Name}}
- Age: {{.Age}}
- Grade: {{.Grade}}
- Career Interest/Category: {{.CareerInterest}}
- Learning Preferences: {{.LearningPreferences}}

## Assessment Results:
- O*Net Interest Profiler: {{.ONetResults}}
- Career Suggestions: {{.CareerSuggestions}}
- Preferred Employers: {{.PreferredEmployers}}

## Retrieved Context Documents:
{{.RetrievedContext}}

## Instructions for Handling Missing or Ambiguous Information:

- If any student information (such as learning preferences or preferred employers) is missing or unclear, use general but relevant career-category aligned goals based on the retrieved standards.
- If career interests or assessment results are ambiguous or conflicting, prioritize measurable goals focusing on broad transferable skills (e.g., communication, workplace behavior).
- Clearly note any assumptions you make in your output.
- Avoid creating fictitious information and names for employers.
- When in doubt, generate goals that reflect best practices for the specified career category and align with industry standards and state educational content standards.

---

## Tasks:

Using the student profile and retrieved documents, perform the following:

1. **Postsecondary Goals**
   - Create one measurable Employment Goal
   - Create one measurable Education or Training Goal

2. **Measurable annual goal aligned with standards**
   - Must support the stated career path
   - Focus on a skill relevant to the career (e.g., communication, driving skills, punctuality, customer service)
   - Use language and expectations from the retrieved standards

3. **2-3 Short-Term Objectives**
   - That build toward the annual goal
   - Must be measurable and observable
   - Use common IEP formatting as seen in the retrieved documents

4. **Alignment to Standards**
   - Explain how the goals align with:
     - Career expectations from the Occupational Outlook Handbook (OOH)
     - Workplace readiness or academic standards (e.g., 21st Century Skills)
   - Refer to specific phrases, duties, or performance expectations found in the retrieved content

---

## Output Format:

**Postsecondary Goal:**

1. Employment
[Insert]

2. Education/Training
[Insert]

**Annual IEP Goal:**
[Insert]

**Short-Term Objectives:**
- Objective 1: [Insert]
- Objective 2: [Insert]
- Objective 3 (optional): [Insert]

**Alignment to Standards:**
1. Career Standards:    [Summarize alignment with OOH for the occupation]
2. Education Standards: [Summarize alignment with 21st Century Skills or state frameworks]
`))

// chatPromptInput carries the retrieved context and the user's question into
// the chat QA template.
type chatPromptInput struct {
	Context  string
	Question string
}

var chatPrompt = template.Must(template.New("chat").Parse(`Answer the question based only on the following context:

{{.Context}}

Question: {{.Question}}

If the information to answer the question is not present in the context, respond with "` + FallbackAnswer + `"

Answer:
`))

// renderGoalPrompt merges the profile and evidence into the goal template.
func renderGoalPrompt(profile types.StudentProfile, evidence types.RetrievalResult) (string, error) {
	var b strings.Builder
	err := goalPrompt.Execute(&b, goalPromptInput{
		StudentProfile:   profile,
		RetrievedContext: evidence.JoinContent(),
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// renderChatPrompt merges the retrieved context and question into the chat
// template.
func renderChatPrompt(contextText, question string) (string, error) {
	var b strings.Builder
	err := chatPrompt.Execute(&b, chatPromptInput{Context: contextText, Question: question})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
