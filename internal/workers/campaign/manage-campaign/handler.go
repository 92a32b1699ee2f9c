// internal/workers/campaign/manage-campaign/handler.go
package managecampaign

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"campaign-builder/internal/common/camunda"
	"campaign-builder/internal/common/errors"
	"campaign-builder/internal/common/logger"
	"campaign-builder/internal/models"
	"campaign-builder/internal/store"
)

const (
	TaskType = "manage-campaign"
)

type Handler struct {
	config    *Config
	campaigns *store.CampaignStore
	errors    camunda.JobFailer
	logger    logger.Logger
}

func NewHandler(config *Config, campaigns *store.CampaignStore, failer camunda.JobFailer, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		campaigns: campaigns,
		errors:    failer,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return h.fail(client, job, errors.NewInputParsingError(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		return h.fail(client, job, err)
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err.Error()})
		return err
	}
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	out := &Output{Action: input.Action}

	switch input.Action {
	case ActionList:
		list, err := h.campaigns.List(ctx)
		if err != nil {
			return nil, err
		}
		out.Campaigns = list
	case ActionGet:
		if err := requireID(input); err != nil {
			return nil, err
		}
		c, err := h.campaigns.Get(ctx, input.CampaignID)
		if err != nil {
			return nil, err
		}
		out.Campaign = c
	case ActionGetActive:
		c, err := h.campaigns.Active(ctx)
		if err != nil {
			return nil, err
		}
		out.Campaign = c
	case ActionUpdate:
		if err := requireID(input); err != nil {
			return nil, err
		}
		upd := models.CampaignUpdate{}
		if input.Update != nil {
			upd = *input.Update
		}
		c, err := h.campaigns.Update(ctx, input.CampaignID, upd)
		if err != nil {
			return nil, err
		}
		out.Campaign = c
	case ActionDelete:
		if err := requireID(input); err != nil {
			return nil, err
		}
		if err := h.campaigns.Delete(ctx, input.CampaignID); err != nil {
			return nil, err
		}
		out.Deleted = true
	case ActionSetActive:
		if err := requireID(input); err != nil {
			return nil, err
		}
		if err := h.campaigns.SetActive(ctx, input.CampaignID); err != nil {
			return nil, err
		}
	default:
		return nil, errors.NewUnsupportedActionError(input.Action)
	}

	activeID, err := h.campaigns.ActiveID(ctx)
	if err != nil {
		return nil, err
	}
	out.ActiveCampaignID = activeID

	h.logger.Info("campaign action complete", map[string]interface{}{
		"action":           input.Action,
		"campaignId":       input.CampaignID,
		"activeCampaignId": activeID,
	})
	return out, nil
}

func requireID(input *Input) error {
	if input.CampaignID == "" {
		return errors.NewInvalidInputError("campaignId is required for action " + input.Action)
	}
	return nil
}

func (h *Handler) fail(client worker.JobClient, job entities.Job, err error) error {
	h.errors.HandleJobError(context.Background(), client, job, err)
	return err
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
