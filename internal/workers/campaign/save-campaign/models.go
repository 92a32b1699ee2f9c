// internal/workers/campaign/save-campaign/models.go
package savecampaign

import "campaign-builder/internal/models"

type Input struct {
	Campaign models.Campaign `json:"campaign"`
}

type Output struct {
	Campaign         models.Campaign `json:"campaign"`
	ActiveCampaignID string          `json:"activeCampaignId"`
}
