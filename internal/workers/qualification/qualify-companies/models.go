// internal/workers/qualification/qualify-companies/models.go
package qualifycompanies

import (
	"campaign-builder/internal/generator/results"
	"campaign-builder/internal/models"
)

// Input names the agent to run. CompanyIDs is the uploaded account sample;
// fewer than ten known companies means the whole dataset is sampled.
type Input struct {
	AgentID    string   `json:"agentId"`
	CompanyIDs []string `json:"companyIds,omitempty"`
	Seed       int64    `json:"seed,omitempty"`
}

type Output struct {
	AgentID          string               `json:"agentId"`
	QuestionType     models.QuestionType  `json:"questionType"`
	ResearchQuestion string               `json:"researchQuestion"`
	Results          []models.AgentResult `json:"results"`
	Summary          results.Summary      `json:"summary"`
	// NotEnoughData is set when the agent produced no results.
	NotEnoughData bool `json:"notEnoughData"`
}
