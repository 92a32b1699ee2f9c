// internal/models/result.go
package models

// Status is the qualification outcome of one (agent, company) pair.
type Status string

const (
	StatusQualified   Status = "qualified"
	StatusNeedsReview Status = "needs_review"
	StatusUnqualified Status = "unqualified"
)

type Evidence struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Source      string  `json:"source"`
	Confidence  float64 `json:"confidence"`
}

// AgentResult is one research result. Qualified and NeedsReview are derived
// from Status and are never both true.
type AgentResult struct {
	AgentID         string       `json:"agentId"`
	CompanyID       string       `json:"companyId"`
	CompanyName     string       `json:"companyName"`
	Status          Status       `json:"status"`
	Qualified       bool         `json:"qualified"`
	NeedsReview     bool         `json:"needsReview"`
	Confidence      int          `json:"confidence"`
	ResearchSummary string       `json:"researchSummary"`
	WhyQualified    string       `json:"whyQualified"`
	Evidence        []Evidence   `json:"evidence"`
	DataSources     []string     `json:"dataSources,omitempty"`
	QuestionType    QuestionType `json:"questionType"`
	SelectedOptions []string     `json:"selectedOptions,omitempty"`
}

// SetStatus records the outcome and the booleans derived from it.
func (r *AgentResult) SetStatus(s Status) {
	r.Status = s
	r.Qualified = s == StatusQualified
	r.NeedsReview = s == StatusNeedsReview
}

// Bucket returns the outcome, deriving it from the booleans for records
// written before Status existed. NeedsReview takes precedence.
func (r AgentResult) Bucket() Status {
	switch {
	case r.Status != "":
		return r.Status
	case r.NeedsReview:
		return StatusNeedsReview
	case r.Qualified:
		return StatusQualified
	default:
		return StatusUnqualified
	}
}
