// internal/store/overrides.go
package store

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "campaign-builder/internal/common/errors"
	"campaign-builder/internal/common/logger"
)

// protectedAgentFields are never stored in an override.
var protectedAgentFields = []string{"id", "categoryId"}

// OverrideStore keeps local agent edits under modifiedAgents as a map of
// agent id to a partial agent JSON object.
type OverrideStore struct {
	kv     Store
	logger logger.Logger
}

func NewOverrideStore(kv Store, log logger.Logger) *OverrideStore {
	return &OverrideStore{kv: kv, logger: log}
}

// All returns every stored override. Corrupt data reads as no overrides.
func (s *OverrideStore) All(ctx context.Context) (map[string]json.RawMessage, error) {
	raw, ok, err := s.kv.Get(ctx, KeyModifiedAgents)
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]json.RawMessage{}, nil
	}
	return s.decode(raw), nil
}

// Get returns the override for one agent.
func (s *OverrideStore) Get(ctx context.Context, agentID string) (json.RawMessage, bool, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, false, err
	}
	o, ok := all[agentID]
	return o, ok, nil
}

// Save merges partial over the agent's existing override and returns the
// stored result. partial must be a JSON object.
func (s *OverrideStore) Save(ctx context.Context, agentID string, partial json.RawMessage) (json.RawMessage, error) {
	if agentID == "" {
		return nil, apperrors.NewInvalidInputError("agentId is required")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(partial, &fields); err != nil || fields == nil {
		return nil, apperrors.NewInvalidInputError("override must be a JSON object")
	}
	for _, f := range protectedAgentFields {
		delete(fields, f)
	}

	var saved json.RawMessage
	err := s.kv.Update(ctx, KeyModifiedAgents, func(cur []byte, exists bool) ([]byte, error) {
		all := map[string]json.RawMessage{}
		if exists {
			all = s.decode(cur)
		}

		merged := map[string]json.RawMessage{}
		if prev, ok := all[agentID]; ok {
			_ = json.Unmarshal(prev, &merged)
		}
		for k, v := range fields {
			merged[k] = v
		}

		out, err := json.Marshal(merged)
		if err != nil {
			return nil, fmt.Errorf("encode override: %w", err)
		}
		all[agentID] = out
		saved = out
		return json.Marshal(all)
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Reset removes the override for one agent. Resetting an agent without an
// override is a no-op.
func (s *OverrideStore) Reset(ctx context.Context, agentID string) error {
	return s.kv.Update(ctx, KeyModifiedAgents, func(cur []byte, exists bool) ([]byte, error) {
		if !exists {
			return nil, nil
		}
		all := s.decode(cur)
		delete(all, agentID)
		if len(all) == 0 {
			return nil, nil
		}
		return json.Marshal(all)
	})
}

func (s *OverrideStore) decode(raw []byte) map[string]json.RawMessage {
	all := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &all); err != nil {
		s.logger.Warn("discarding corrupt agent overrides", map[string]interface{}{
			"key":   KeyModifiedAgents,
			"error": err.Error(),
		})
		return map[string]json.RawMessage{}
	}
	return all
}
