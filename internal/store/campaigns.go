// internal/store/campaigns.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "campaign-builder/internal/common/errors"
	"campaign-builder/internal/common/logger"
	"campaign-builder/internal/models"

	"github.com/google/uuid"
)

// CampaignStore keeps saved campaigns as one list under the campaigns key
// and the active campaign id under activeCampaignId.
type CampaignStore struct {
	kv     Store
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

// NewCampaignStore returns a store after migrating any legacy record.
func NewCampaignStore(ctx context.Context, kv Store, log logger.Logger) (*CampaignStore, error) {
	s := &CampaignStore{
		kv:     kv,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	if _, err := s.Migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Migrate converts a legacy campaignData record into the list format. Once
// the campaigns key exists the legacy key is never read again, so running
// Migrate repeatedly is safe. It reports whether a record was migrated.
func (s *CampaignStore) Migrate(ctx context.Context) (bool, error) {
	if _, ok, err := s.kv.Get(ctx, KeyCampaigns); err != nil || ok {
		return false, err
	}

	raw, ok, err := s.kv.Get(ctx, KeyLegacyCampaign)
	if err != nil || !ok {
		return false, err
	}

	var legacy models.LegacyCampaign
	if err := json.Unmarshal(raw, &legacy); err != nil {
		s.logger.Warn("dropping corrupt legacy campaign", map[string]interface{}{
			"key":   KeyLegacyCampaign,
			"error": err.Error(),
		})
		return false, s.kv.Delete(ctx, KeyLegacyCampaign)
	}

	campaign := s.fromLegacy(legacy)
	migrated := false
	err = s.kv.Update(ctx, KeyCampaigns, func(cur []byte, exists bool) ([]byte, error) {
		if exists {
			// another instance finished the migration first
			return cur, nil
		}
		migrated = true
		return json.Marshal([]models.Campaign{campaign})
	})
	if err != nil {
		return false, err
	}

	if migrated {
		if err := s.setActiveID(ctx, campaign.ID); err != nil {
			return false, err
		}
		s.logger.Info("migrated legacy campaign", map[string]interface{}{
			"campaignId": campaign.ID,
			"name":       campaign.Name,
		})
	}
	return migrated, s.kv.Delete(ctx, KeyLegacyCampaign)
}

func (s *CampaignStore) fromLegacy(legacy models.LegacyCampaign) models.Campaign {
	created, err := time.Parse(time.RFC3339, legacy.CreatedAt)
	if err != nil {
		created = s.now()
	}
	name := "Untitled Campaign"
	if legacy.Agent != nil && legacy.Agent.Title != "" {
		name = legacy.Agent.Title + " Campaign"
	}
	return models.Campaign{
		ID:                 s.newID(),
		Name:               name,
		Agent:              legacy.Agent,
		QualifiedCompanies: legacy.QualifiedCompanies,
		SelectedPersonas:   legacy.SelectedPersonas,
		CreatedAt:          created.UTC(),
		LastModified:       created.UTC(),
		Status:             models.CampaignActive,
	}
}

// List returns every saved campaign.
func (s *CampaignStore) List(ctx context.Context) ([]models.Campaign, error) {
	if _, err := s.Migrate(ctx); err != nil {
		return nil, err
	}
	raw, ok, err := s.kv.Get(ctx, KeyCampaigns)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Campaign{}, nil
	}
	return s.decode(raw), nil
}

// Get returns one campaign by id.
func (s *CampaignStore) Get(ctx context.Context, id string) (*models.Campaign, error) {
	campaigns, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(campaigns, id); i >= 0 {
		return &campaigns[i], nil
	}
	return nil, apperrors.NewCampaignNotFoundError(id)
}

// ActiveID returns the active campaign id, or "" when none is active.
func (s *CampaignStore) ActiveID(ctx context.Context) (string, error) {
	raw, ok, err := s.kv.Get(ctx, KeyActiveCampaign)
	if err != nil || !ok {
		return "", err
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		s.logger.Warn("ignoring corrupt active campaign id", map[string]interface{}{"error": err.Error()})
		return "", nil
	}
	return id, nil
}

// Active returns the active campaign, or nil when none is active.
func (s *CampaignStore) Active(ctx context.Context) (*models.Campaign, error) {
	id, err := s.ActiveID(ctx)
	if err != nil || id == "" {
		return nil, err
	}
	campaigns, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(campaigns, id); i >= 0 {
		return &campaigns[i], nil
	}
	return nil, nil
}

// Save stores c as a new campaign (or replaces the campaign with the same
// id) and makes it the active one.
func (s *CampaignStore) Save(ctx context.Context, c models.Campaign) (*models.Campaign, error) {
	now := s.now()
	if c.ID == "" {
		c.ID = s.newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.LastModified = now
	if c.Status == "" {
		c.Status = models.CampaignActive
	}
	if c.Name == "" {
		c.Name = defaultName(c.Agent, now)
	}

	err := s.mutate(ctx, func(campaigns []models.Campaign) ([]models.Campaign, error) {
		if i := indexOf(campaigns, c.ID); i >= 0 {
			c.CreatedAt = campaigns[i].CreatedAt
			campaigns[i] = c
			return campaigns, nil
		}
		return append(campaigns, c), nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.setActiveID(ctx, c.ID); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update merges the non-nil fields of upd over the stored campaign and
// stamps LastModified.
func (s *CampaignStore) Update(ctx context.Context, id string, upd models.CampaignUpdate) (*models.Campaign, error) {
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("unknown campaign status %q", *upd.Status))
	}

	var updated models.Campaign
	err := s.mutate(ctx, func(campaigns []models.Campaign) ([]models.Campaign, error) {
		i := indexOf(campaigns, id)
		if i < 0 {
			return nil, apperrors.NewCampaignNotFoundError(id)
		}
		c := campaigns[i]
		if upd.Name != nil {
			c.Name = *upd.Name
		}
		if upd.Agent != nil {
			c.Agent = upd.Agent
		}
		if upd.QualifiedCompanies != nil {
			c.QualifiedCompanies = upd.QualifiedCompanies
		}
		if upd.SelectedPersonas != nil {
			c.SelectedPersonas = upd.SelectedPersonas
		}
		if upd.Status != nil {
			c.Status = *upd.Status
		}
		c.LastModified = s.now()
		campaigns[i] = c
		updated = c
		return campaigns, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a campaign. Deleting the active campaign makes the first
// remaining campaign active, or clears the active id when none remain.
func (s *CampaignStore) Delete(ctx context.Context, id string) error {
	var remaining []models.Campaign
	err := s.mutate(ctx, func(campaigns []models.Campaign) ([]models.Campaign, error) {
		i := indexOf(campaigns, id)
		if i < 0 {
			return nil, apperrors.NewCampaignNotFoundError(id)
		}
		remaining = append(campaigns[:i:i], campaigns[i+1:]...)
		return remaining, nil
	})
	if err != nil {
		return err
	}

	activeID, err := s.ActiveID(ctx)
	if err != nil {
		return err
	}
	if activeID != id {
		return nil
	}
	if len(remaining) == 0 {
		return s.kv.Delete(ctx, KeyActiveCampaign)
	}
	return s.setActiveID(ctx, remaining[0].ID)
}

// SetActive marks an existing campaign active.
func (s *CampaignStore) SetActive(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.setActiveID(ctx, id)
}

func (s *CampaignStore) setActiveID(ctx context.Context, id string) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyActiveCampaign, raw)
}

// mutate migrates any legacy record first so writes never miss it.
func (s *CampaignStore) mutate(ctx context.Context, fn func([]models.Campaign) ([]models.Campaign, error)) error {
	if _, err := s.Migrate(ctx); err != nil {
		return err
	}
	return s.kv.Update(ctx, KeyCampaigns, func(cur []byte, exists bool) ([]byte, error) {
		campaigns := []models.Campaign{}
		if exists {
			campaigns = s.decode(cur)
		}
		next, err := fn(campaigns)
		if err != nil {
			return nil, err
		}
		return json.Marshal(next)
	})
}

func (s *CampaignStore) decode(raw []byte) []models.Campaign {
	var campaigns []models.Campaign
	if err := json.Unmarshal(raw, &campaigns); err != nil {
		s.logger.Warn("treating corrupt campaign list as empty", map[string]interface{}{
			"key":   KeyCampaigns,
			"error": err.Error(),
		})
		return []models.Campaign{}
	}
	if campaigns == nil {
		return []models.Campaign{}
	}
	return campaigns
}

func indexOf(campaigns []models.Campaign, id string) int {
	for i := range campaigns {
		if campaigns[i].ID == id {
			return i
		}
	}
	return -1
}

func defaultName(agent *models.Agent, at time.Time) string {
	if agent != nil && agent.Title != "" {
		return agent.Title + " Campaign"
	}
	return "Campaign " + at.Format("2006-01-02 15:04")
}
