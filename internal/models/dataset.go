// internal/models/dataset.go
package models

// Document file names inside a dataset directory.
const (
	DocConfig    = "config.json"
	DocCompanies = "companies.json"
	DocAgents    = "agents.json"
	DocPersonas  = "personas.json"
	DocResults   = "results.json"
)

type DatasetCounts struct {
	Companies int `json:"companies"`
	Agents    int `json:"agents"`
	Personas  int `json:"personas"`
}

type DatasetConfig struct {
	Name        string        `json:"name"`
	DisplayName string        `json:"displayName,omitempty"`
	Vertical    string        `json:"vertical,omitempty"`
	Version     string        `json:"version"`
	Description string        `json:"description,omitempty"`
	Counts      DatasetCounts `json:"counts"`
}

type CompaniesDocument struct {
	Companies []Company `json:"companies"`
}

type AgentsDocument struct {
	Categories []AgentCategory `json:"categories"`
}

type PersonasDocument struct {
	Metadata          map[string]interface{}     `json:"metadata,omitempty"`
	PersonaCategories map[string]PersonaCategory `json:"personaCategories"`
	Personas          []Persona                  `json:"personas"`
}

// Variation is one hand-authored result template. Summary and reason may
// contain the {companyName} placeholder.
type Variation struct {
	ResearchSummary string   `json:"researchSummary"`
	WhyQualified    string   `json:"whyQualified"`
	Evidence        []string `json:"evidence"`
	SelectedOptions []string `json:"selectedOptions,omitempty"`
}

type ResultBucket struct {
	CompanyIDs   []string    `json:"companyIds,omitempty"`
	DefaultCount int         `json:"defaultCount,omitempty"`
	Variations   []Variation `json:"variations,omitempty"`
}

// AgentResultTable is a results.json entry for one agent.
type AgentResultTable struct {
	Qualified   ResultBucket `json:"qualified"`
	Unqualified ResultBucket `json:"unqualified"`
	NeedsReview ResultBucket `json:"needsReview"`
}

// HasVariations reports whether any bucket carries templates.
func (t AgentResultTable) HasVariations() bool {
	return len(t.Qualified.Variations) > 0 ||
		len(t.NeedsReview.Variations) > 0 ||
		len(t.Unqualified.Variations) > 0
}

type ResultsDocument struct {
	Metadata map[string]interface{}      `json:"metadata,omitempty"`
	Results  map[string]AgentResultTable `json:"results"`
}

// Bundle is a fully loaded dataset.
type Bundle struct {
	Name      string            `json:"name"`
	Config    DatasetConfig     `json:"config"`
	Companies CompaniesDocument `json:"companies"`
	Agents    AgentsDocument    `json:"agents"`
	Personas  PersonasDocument  `json:"personas"`
	Results   ResultsDocument   `json:"results"`
}
