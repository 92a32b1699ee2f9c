package saveagentoverride

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-builder/internal/common/errors"
	"campaign-builder/internal/common/logger"
	"campaign-builder/internal/dataset"
	"campaign-builder/internal/models"
	"campaign-builder/internal/store"
)

func setup(t *testing.T) (*Handler, *store.OverrideStore) {
	t.Helper()
	log := logger.NewTestLogger(t)
	kv := store.NewMemoryStore()
	manager := dataset.NewManager(dataset.Bundled(), kv, dataset.DefaultName, log)
	overrides := store.NewOverrideStore(kv, log)
	return NewHandler(&Config{Timeout: 5 * time.Second}, manager, overrides, errors.NewErrorHandler(log), log), overrides
}

func TestHandler_Execute_SavesAndMergesOverrides(t *testing.T) {
	h, overrides := setup(t)
	ctx := context.Background()

	out, err := h.Execute(ctx, &Input{
		AgentID:  "data-hiring",
		Override: json.RawMessage(`{"questionType":"Picklist","id":"hijacked","categoryId":"news"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "data-hiring", out.Agent.ID)
	assert.Equal(t, "hiring", out.Agent.CategoryID)
	assert.Equal(t, models.QuestionTypePicklist, out.Agent.QuestionType)
	assert.JSONEq(t, `{"questionType":"Picklist"}`, string(out.Override))

	out, err = h.Execute(ctx, &Input{
		AgentID:  "data-hiring",
		Override: json.RawMessage(`{"title":"Data team growth"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Data team growth", out.Agent.Title)
	assert.Equal(t, models.QuestionTypePicklist, out.Agent.QuestionType)

	stored, ok, err := overrides.Get(ctx, "data-hiring")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"questionType":"Picklist","title":"Data team growth"}`, string(stored))
}

func TestHandler_Execute_ResetRestoresCanonicalAgent(t *testing.T) {
	h, overrides := setup(t)
	ctx := context.Background()

	_, err := h.Execute(ctx, &Input{AgentID: "tech-stack", Override: json.RawMessage(`{"questionType":"Boolean"}`)})
	require.NoError(t, err)

	out, err := h.Execute(ctx, &Input{AgentID: "tech-stack", Reset: true})
	require.NoError(t, err)
	assert.True(t, out.Reset)
	assert.Equal(t, models.QuestionTypePicklist, out.Agent.QuestionType)

	_, ok, err := overrides.Get(ctx, "tech-stack")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		wantCode errors.ErrorCode
	}{
		{"unknown agent", Input{AgentID: "ghost", Override: json.RawMessage(`{}`)}, errors.ErrCodeAgentNotFound},
		{"missing override", Input{AgentID: "news-ma"}, errors.ErrCodeInvalidInput},
		{"override is not an object", Input{AgentID: "news-ma", Override: json.RawMessage(`["x"]`)}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setup(t)
			_, err := h.Execute(context.Background(), &tt.input)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}
