package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-builder/internal/common/camunda"
	"campaign-builder/internal/common/config"
	cberrors "campaign-builder/internal/common/errors"
	"campaign-builder/internal/common/logger"
	"campaign-builder/internal/dataset"
	"campaign-builder/internal/models"
	"campaign-builder/internal/store"
	"campaign-builder/pkg/registry"

	sao "campaign-builder/internal/workers/agent/save-agent-override"
	mc "campaign-builder/internal/workers/campaign/manage-campaign"
	sc "campaign-builder/internal/workers/campaign/save-campaign"
	ld "campaign-builder/internal/workers/dataset/load-dataset"
	sd "campaign-builder/internal/workers/dataset/switch-dataset"
	vd "campaign-builder/internal/workers/dataset/validate-dataset"
	gc "campaign-builder/internal/workers/outreach/generate-contacts"
	qc "campaign-builder/internal/workers/qualification/qualify-companies"
)

// setupRedisBackedHandlers wires the handlers the way main does, with the
// redis backend pointed at miniredis.
func setupRedisBackedHandlers(t *testing.T) (*miniredis.Miniredis, map[string]camunda.JobHandler) {
	t.Helper()
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := &config.Config{
		Storage:    config.StorageConfig{Backend: config.StorageRedis, KeyPrefix: "campaign-builder:"},
		Database:   config.DatabaseConfig{Redis: config.RedisConfig{Address: mr.Addr()}},
		Generation: config.GenerationConfig{Seed: 42, ContactsPerPersona: 1},
	}

	kv, closeStore, err := store.Open(ctx, cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeStore() })

	campaigns, err := store.NewCampaignStore(ctx, kv, log)
	require.NoError(t, err)

	reg, err := registry.Default()
	require.NoError(t, err)

	return mr, newHandlers(cfg, reg, deps{
		manager:   dataset.NewManager(dataset.Bundled(), kv, dataset.DefaultName, log),
		overrides: store.NewOverrideStore(kv, log),
		campaigns: campaigns,
		failer:    cberrors.NewErrorHandler(log),
		log:       log,
	})
}

func TestNewHandlers_CoversEveryRegisteredActivity(t *testing.T) {
	_, handlers := setupRedisBackedHandlers(t)

	reg, err := registry.Default()
	require.NoError(t, err)
	for _, taskType := range reg.TaskTypes() {
		assert.Contains(t, handlers, taskType)
	}
	assert.Len(t, handlers, len(reg.TaskTypes()))
}

func TestWizardFlow(t *testing.T) {
	ctx := context.Background()
	mr, handlers := setupRedisBackedHandlers(t)

	// Upload accounts: load the active dataset.
	loaded, err := handlers[ld.TaskType].(*ld.Handler).Execute(ctx, &ld.Input{})
	require.NoError(t, err)
	assert.Equal(t, "segment-saas", loaded.DatasetName)
	require.GreaterOrEqual(t, len(loaded.Companies), 10)

	valid := handlers[vd.TaskType].(*vd.Handler).Execute(ctx, &vd.Input{})
	assert.True(t, valid.Valid, "%v", valid.Errors)

	// Edit the agent, then run it.
	_, err = handlers[sao.TaskType].(*sao.Handler).Execute(ctx, &sao.Input{
		AgentID:  "marketing-hiring",
		Override: json.RawMessage(`{"questionType":"Picklist"}`),
	})
	require.NoError(t, err)
	assert.True(t, mr.Exists("campaign-builder:"+store.KeyModifiedAgents))

	qualified, err := handlers[qc.TaskType].(*qc.Handler).Execute(ctx, &qc.Input{AgentID: "marketing-hiring"})
	require.NoError(t, err)
	assert.Equal(t, models.QuestionTypePicklist, qualified.QuestionType)
	require.Len(t, qualified.Results, 10)
	assert.Equal(t, 3, qualified.Summary.Qualified)

	var companyIDs []string
	var picked []models.QualifiedCompany
	for _, r := range qualified.Results {
		if r.Status != models.StatusQualified {
			continue
		}
		companyIDs = append(companyIDs, r.CompanyID)
		picked = append(picked, models.QualifiedCompany{
			Company:      models.Company{ID: r.CompanyID, Name: r.CompanyName},
			AgentResults: []models.AgentResult{r},
		})
	}

	// Select personas and generate contacts.
	contacts, err := handlers[gc.TaskType].(*gc.Handler).Execute(ctx, &gc.Input{
		CompanyIDs:   companyIDs,
		PersonaNames: []string{"Growth Hacker", "Sales Leadership"},
	})
	require.NoError(t, err)
	assert.Len(t, contacts.Contacts, 6)

	// Launch the campaign.
	saved, err := handlers[sc.TaskType].(*sc.Handler).Execute(ctx, &sc.Input{Campaign: models.Campaign{
		Name:               "Marketing hiring push",
		QualifiedCompanies: picked,
		SelectedPersonas:   []models.SelectedPersona{{ID: "growth-hacker", Name: "Growth Hacker"}},
	}})
	require.NoError(t, err)
	require.NotEmpty(t, saved.Campaign.ID)

	active, err := handlers[mc.TaskType].(*mc.Handler).Execute(ctx, &mc.Input{Action: mc.ActionGetActive})
	require.NoError(t, err)
	require.NotNil(t, active.Campaign)
	assert.Equal(t, saved.Campaign.ID, active.Campaign.ID)
	assert.Len(t, active.Campaign.QualifiedCompanies, 3)

	// Switching datasets is recorded in redis and picked up by the next load.
	switched := handlers[sd.TaskType].(*sd.Handler).Execute(ctx, &sd.Input{DatasetName: "segment-fintech"})
	assert.True(t, switched.Switched)
	loaded, err = handlers[ld.TaskType].(*ld.Handler).Execute(ctx, &ld.Input{})
	require.NoError(t, err)
	assert.Equal(t, "segment-fintech", loaded.DatasetName)
}

func TestWriteStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	writeStatus(rec, http.StatusServiceUnavailable, "unavailable", "gateway down")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body["status"])
	assert.Equal(t, "gateway down", body["error"])
	assert.NotEmpty(t, body["time"])
}
