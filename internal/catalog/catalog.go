// Package catalog exposes a loaded dataset in the shapes the workers use
// and merges local agent overrides over canonical agents.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"campaign-builder/internal/common/logger"
	"campaign-builder/internal/models"
)

// OverrideSource supplies stored agent overrides keyed by agent id.
type OverrideSource interface {
	All(ctx context.Context) (map[string]json.RawMessage, error)
}

type Catalog struct {
	bundle    *models.Bundle
	overrides OverrideSource
	logger    logger.Logger
}

// New wraps a bundle. overrides may be nil.
func New(bundle *models.Bundle, overrides OverrideSource, log logger.Logger) *Catalog {
	return &Catalog{bundle: bundle, overrides: overrides, logger: log}
}

func (c *Catalog) Companies() []models.Company {
	return c.bundle.Companies.Companies
}

func (c *Catalog) CompanyByID(id string) (models.Company, bool) {
	for _, co := range c.bundle.Companies.Companies {
		if co.ID == id {
			return co, true
		}
	}
	return models.Company{}, false
}

// CompaniesByIDs returns the known companies among ids, in the order given.
// Unknown ids are skipped.
func (c *Catalog) CompaniesByIDs(ids []string) []models.Company {
	index := make(map[string]models.Company, len(c.bundle.Companies.Companies))
	for _, co := range c.bundle.Companies.Companies {
		index[co.ID] = co
	}
	out := make([]models.Company, 0, len(ids))
	for _, id := range ids {
		if co, ok := index[id]; ok {
			out = append(out, co)
		}
	}
	return out
}

// CanonicalAgents flattens the category tree without applying overrides.
func (c *Catalog) CanonicalAgents() []models.Agent {
	var agents []models.Agent
	for _, cat := range c.bundle.Agents.Categories {
		for _, a := range cat.Agents {
			a.CategoryID = cat.ID
			agents = append(agents, a)
		}
	}
	return agents
}

// Agents returns every agent with its stored override applied. When the
// overrides cannot be read the canonical agents are returned.
func (c *Catalog) Agents(ctx context.Context) []models.Agent {
	agents := c.CanonicalAgents()
	if c.overrides == nil {
		return agents
	}

	overrides, err := c.overrides.All(ctx)
	if err != nil {
		c.logger.Warn("agent overrides unavailable, using canonical agents", map[string]interface{}{"error": err})
		return agents
	}

	for i, a := range agents {
		o, ok := overrides[a.ID]
		if !ok {
			continue
		}
		merged, err := ApplyOverride(a, o)
		if err != nil {
			c.logger.Warn("skipping unusable agent override", map[string]interface{}{
				"agentId": a.ID,
				"error":   err.Error(),
			})
			continue
		}
		agents[i] = merged
	}
	return agents
}

func (c *Catalog) AgentByID(ctx context.Context, id string) (models.Agent, bool) {
	for _, a := range c.Agents(ctx) {
		if a.ID == id {
			return a, true
		}
	}
	return models.Agent{}, false
}

func (c *Catalog) AgentsByCategory(ctx context.Context, categoryID string) []models.Agent {
	var out []models.Agent
	for _, a := range c.Agents(ctx) {
		if a.CategoryID == categoryID {
			out = append(out, a)
		}
	}
	return out
}

func (c *Catalog) Personas() []models.Persona {
	return c.bundle.Personas.Personas
}

func (c *Catalog) PersonasByCategory(categoryID string) []models.Persona {
	var out []models.Persona
	for _, p := range c.bundle.Personas.Personas {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

func (c *Catalog) PersonaCategories() map[string]models.PersonaCategory {
	return c.bundle.Personas.PersonaCategories
}

func (c *Catalog) CategoryMetadata(categoryID string) (models.PersonaCategory, bool) {
	meta, ok := c.bundle.Personas.PersonaCategories[categoryID]
	return meta, ok
}

// PersonaNames returns display names of every persona, in dataset order.
func (c *Catalog) PersonaNames() []string {
	names := make([]string, 0, len(c.bundle.Personas.Personas))
	for _, p := range c.bundle.Personas.Personas {
		names = append(names, p.Name)
	}
	return names
}

// LegacyPersonas projects personas into the reduced legacy shape. A persona
// without an icon borrows its category's icon.
func (c *Catalog) LegacyPersonas() []models.LegacyPersona {
	out := make([]models.LegacyPersona, 0, len(c.bundle.Personas.Personas))
	for _, p := range c.bundle.Personas.Personas {
		icon := p.Icon
		if icon == "" {
			icon = c.bundle.Personas.PersonaCategories[p.CategoryID].Icon
		}
		out = append(out, models.LegacyPersona{
			ID:          p.ID,
			Icon:        icon,
			Title:       p.Name,
			Description: p.Description,
		})
	}
	return out
}

// CategoryIDs returns the agent category ids, sorted.
func (c *Catalog) CategoryIDs() []string {
	ids := make([]string, 0, len(c.bundle.Agents.Categories))
	for _, cat := range c.bundle.Agents.Categories {
		ids = append(ids, cat.ID)
	}
	sort.Strings(ids)
	return ids
}

// ApplyOverride overlays the top-level fields of override onto agent. The
// agent's id and categoryId always survive the merge.
func ApplyOverride(agent models.Agent, override json.RawMessage) (models.Agent, error) {
	base, err := json.Marshal(agent)
	if err != nil {
		return agent, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return agent, err
	}

	var patch map[string]json.RawMessage
	if err := json.Unmarshal(override, &patch); err != nil {
		return agent, fmt.Errorf("override is not a JSON object: %w", err)
	}
	for k, v := range patch {
		fields[k] = v
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return agent, err
	}
	var merged models.Agent
	if err := json.Unmarshal(raw, &merged); err != nil {
		return agent, fmt.Errorf("override does not fit the agent shape: %w", err)
	}
	merged.ID = agent.ID
	merged.CategoryID = agent.CategoryID
	return merged, nil
}
