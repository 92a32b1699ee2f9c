package managecampaign

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-builder/internal/common/errors"
	"campaign-builder/internal/common/logger"
	"campaign-builder/internal/models"
	"campaign-builder/internal/store"
)

func setup(t *testing.T, kv store.Store) (*Handler, *store.CampaignStore) {
	t.Helper()
	log := logger.NewTestLogger(t)
	campaigns, err := store.NewCampaignStore(context.Background(), kv, log)
	require.NoError(t, err)
	return NewHandler(&Config{Timeout: 5 * time.Second}, campaigns, errors.NewErrorHandler(log), log), campaigns
}

func seed(t *testing.T, campaigns *store.CampaignStore, names ...string) []models.Campaign {
	t.Helper()
	out := make([]models.Campaign, 0, len(names))
	for _, n := range names {
		c, err := campaigns.Save(context.Background(), models.Campaign{Name: n})
		require.NoError(t, err)
		out = append(out, *c)
	}
	return out
}

func TestHandler_Execute_ListMigratesLegacyCampaign(t *testing.T) {
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(context.Background(), store.KeyLegacyCampaign, []byte(`{
		"agent": {"id": "news-funding", "title": "Recent Funding", "questionType": "Number"},
		"qualifiedCompanies": [{"id": "datanest", "name": "DataNest"}],
		"selectedPersonas": [{"id": "growth-hacker", "name": "Growth Hacker"}],
		"createdAt": "2024-03-01T10:00:00Z"
	}`)))
	h, _ := setup(t, kv)

	out, err := h.Execute(context.Background(), &Input{Action: ActionList})

	require.NoError(t, err)
	require.Len(t, out.Campaigns, 1)
	migrated := out.Campaigns[0]
	assert.Equal(t, "Recent Funding Campaign", migrated.Name)
	assert.Equal(t, migrated.ID, out.ActiveCampaignID)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), migrated.CreatedAt)
}

func TestHandler_Execute_GetAndGetActive(t *testing.T) {
	h, campaigns := setup(t, store.NewMemoryStore())
	saved := seed(t, campaigns, "first", "second")
	ctx := context.Background()

	out, err := h.Execute(ctx, &Input{Action: ActionGet, CampaignID: saved[0].ID})
	require.NoError(t, err)
	assert.Equal(t, "first", out.Campaign.Name)
	assert.Equal(t, saved[1].ID, out.ActiveCampaignID)

	out, err = h.Execute(ctx, &Input{Action: ActionGetActive})
	require.NoError(t, err)
	assert.Equal(t, "second", out.Campaign.Name)
}

func TestHandler_Execute_GetActiveWithoutCampaigns(t *testing.T) {
	h, _ := setup(t, store.NewMemoryStore())

	out, err := h.Execute(context.Background(), &Input{Action: ActionGetActive})

	require.NoError(t, err)
	assert.Nil(t, out.Campaign)
	assert.Empty(t, out.ActiveCampaignID)
}

func TestHandler_Execute_UpdateStampsLastModified(t *testing.T) {
	h, campaigns := setup(t, store.NewMemoryStore())
	saved := seed(t, campaigns, "draft")
	paused := models.CampaignPaused
	name := "renamed"

	out, err := h.Execute(context.Background(), &Input{
		Action:     ActionUpdate,
		CampaignID: saved[0].ID,
		Update:     &models.CampaignUpdate{Name: &name, Status: &paused},
	})

	require.NoError(t, err)
	assert.Equal(t, "renamed", out.Campaign.Name)
	assert.Equal(t, models.CampaignPaused, out.Campaign.Status)
	assert.False(t, out.Campaign.LastModified.Before(saved[0].LastModified))
	assert.True(t, out.Campaign.CreatedAt.Equal(saved[0].CreatedAt))
}

func TestHandler_Execute_DeleteAndSetActive(t *testing.T) {
	h, campaigns := setup(t, store.NewMemoryStore())
	saved := seed(t, campaigns, "a", "b", "c")
	ctx := context.Background()

	out, err := h.Execute(ctx, &Input{Action: ActionSetActive, CampaignID: saved[1].ID})
	require.NoError(t, err)
	assert.Equal(t, saved[1].ID, out.ActiveCampaignID)

	out, err = h.Execute(ctx, &Input{Action: ActionDelete, CampaignID: saved[1].ID})
	require.NoError(t, err)
	assert.True(t, out.Deleted)
	assert.Equal(t, saved[0].ID, out.ActiveCampaignID)

	out, err = h.Execute(ctx, &Input{Action: ActionList})
	require.NoError(t, err)
	assert.Len(t, out.Campaigns, 2)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		wantCode errors.ErrorCode
	}{
		{"unsupported action", Input{Action: "archive"}, errors.ErrCodeUnsupportedAction},
		{"get without id", Input{Action: ActionGet}, errors.ErrCodeInvalidInput},
		{"get unknown", Input{Action: ActionGet, CampaignID: "nope"}, errors.ErrCodeCampaignNotFound},
		{"update unknown", Input{Action: ActionUpdate, CampaignID: "nope"}, errors.ErrCodeCampaignNotFound},
		{"delete unknown", Input{Action: ActionDelete, CampaignID: "nope"}, errors.ErrCodeCampaignNotFound},
		{"activate unknown", Input{Action: ActionSetActive, CampaignID: "nope"}, errors.ErrCodeCampaignNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setup(t, store.NewMemoryStore())
			_, err := h.Execute(context.Background(), &tt.input)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}
