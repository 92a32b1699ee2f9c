// internal/models/campaign.go
package models

import "time"

type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
)

func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignActive, CampaignPaused, CampaignCompleted:
		return true
	}
	return false
}

// QualifiedCompany is a company carried into a campaign together with the
// personas assigned to it and its research results.
type QualifiedCompany struct {
	Company
	AssignedPersonas []string      `json:"assignedPersonas,omitempty"`
	AgentResults     []AgentResult `json:"agentResults,omitempty"`
	Contacts         []Contact     `json:"contacts,omitempty"`
}

type Campaign struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Agent              *Agent             `json:"agent,omitempty"`
	QualifiedCompanies []QualifiedCompany `json:"qualifiedCompanies"`
	SelectedPersonas   []SelectedPersona  `json:"selectedPersonas"`
	CreatedAt          time.Time          `json:"createdAt"`
	LastModified       time.Time          `json:"lastModified"`
	Status             CampaignStatus     `json:"status"`
}

// CampaignUpdate holds the fields to merge over an existing campaign.
// Nil fields are left untouched.
type CampaignUpdate struct {
	Name               *string            `json:"name,omitempty"`
	Agent              *Agent             `json:"agent,omitempty"`
	QualifiedCompanies []QualifiedCompany `json:"qualifiedCompanies,omitempty"`
	SelectedPersonas   []SelectedPersona  `json:"selectedPersonas,omitempty"`
	Status             *CampaignStatus    `json:"status,omitempty"`
}

// LegacyCampaign is the single-campaign record stored under campaignData
// before campaigns were kept as a list.
type LegacyCampaign struct {
	Agent              *Agent             `json:"agent"`
	QualifiedCompanies []QualifiedCompany `json:"qualifiedCompanies"`
	SelectedPersonas   []SelectedPersona  `json:"selectedPersonas"`
	CreatedAt          string             `json:"createdAt"`
}
