// internal/workers/outreach/generate-contacts/models.go
package generatecontacts

import "campaign-builder/internal/models"

// Input selects the single-company form when CompanyID is set and the batch
// form otherwise. Without PersonaNames every persona of the active dataset
// is contacted.
type Input struct {
	CompanyID    string   `json:"companyId,omitempty"`
	CompanyIDs   []string `json:"companyIds,omitempty"`
	PersonaNames []string `json:"personaNames,omitempty"`
	Count        *int     `json:"count,omitempty"`
	CompanyIndex *int     `json:"companyIndex,omitempty"`
	Seed         int64    `json:"seed,omitempty"`
}

type Output struct {
	Contacts []models.Contact `json:"contacts"`
	ByStatus map[string]int   `json:"byStatus"`
}
