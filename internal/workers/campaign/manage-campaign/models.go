// internal/workers/campaign/manage-campaign/models.go
package managecampaign

import "campaign-builder/internal/models"

const (
	ActionList      = "list"
	ActionGet       = "get"
	ActionGetActive = "getActive"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionSetActive = "setActive"
)

type Input struct {
	Action     string                 `json:"action"`
	CampaignID string                 `json:"campaignId,omitempty"`
	Update     *models.CampaignUpdate `json:"update,omitempty"`
}

// Output fields are filled according to the action. ActiveCampaignID is
// always reported.
type Output struct {
	Action           string            `json:"action"`
	Campaign         *models.Campaign  `json:"campaign,omitempty"`
	Campaigns        []models.Campaign `json:"campaigns"`
	ActiveCampaignID string            `json:"activeCampaignId"`
	Deleted          bool              `json:"deleted,omitempty"`
}
