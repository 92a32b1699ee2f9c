// internal/models/agent.go
package models

import "strings"

type QuestionType string

const (
	QuestionTypeBoolean  QuestionType = "Boolean"
	QuestionTypeNumber   QuestionType = "Number"
	QuestionTypePicklist QuestionType = "Picklist"
)

// QuestionPlaceholder is replaced by the research question in rewrite templates.
const QuestionPlaceholder = "{question}"

// Agent is a research agent definition. CategoryID is stamped from the
// owning category when the agents document is flattened.
type Agent struct {
	ID                    string                    `json:"id"`
	CategoryID            string                    `json:"categoryId,omitempty"`
	Title                 string                    `json:"title"`
	Description           string                    `json:"description,omitempty"`
	QuestionType          QuestionType              `json:"questionType"`
	ResearchQuestion      string                    `json:"researchQuestion"`
	Sources               []string                  `json:"sources,omitempty"`
	ResponseOptions       []string                  `json:"responseOptions,omitempty"`
	SourcesByQuestionType map[QuestionType][]string `json:"sourcesByQuestionType,omitempty"`
	QuestionTemplates     map[QuestionType]string   `json:"questionTemplates,omitempty"`
}

// EffectiveSources returns the sources configured for the agent's current
// question type, falling back to the generic source list.
func (a Agent) EffectiveSources() []string {
	if sources := a.SourcesByQuestionType[a.QuestionType]; len(sources) > 0 {
		return sources
	}
	return a.Sources
}

// RewriteQuestion applies the question template for the current question type.
func (a Agent) RewriteQuestion() string {
	tmpl, ok := a.QuestionTemplates[a.QuestionType]
	if !ok || tmpl == "" {
		return a.ResearchQuestion
	}
	if !strings.Contains(tmpl, QuestionPlaceholder) {
		return tmpl
	}
	return strings.ReplaceAll(tmpl, QuestionPlaceholder, a.ResearchQuestion)
}

type AgentCategory struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	Agents      []Agent `json:"agents"`
}
