// internal/workers/campaign/save-campaign/handler.go
package savecampaign

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"campaign-builder/internal/common/camunda"
	"campaign-builder/internal/common/errors"
	"campaign-builder/internal/common/logger"
	"campaign-builder/internal/store"
)

const (
	TaskType = "save-campaign"
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
	c := input.Campaign
	if c.Status != "" && !c.Status.Valid() {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("unknown campaign status %q", c.Status))
	}

	saved, err := h.campaigns.Save(ctx, c)
	if err != nil {
		return nil, err
	}

	h.logger.Info("campaign saved", map[string]interface{}{
		"campaignId": saved.ID,
		"name":       saved.Name,
		"companies":  len(saved.QualifiedCompanies),
	})
	return &Output{Campaign: *saved, ActiveCampaignID: saved.ID}, nil
}

func (h *Handler) fail(client worker.JobClient, job entities.Job, err error) error {
	h.errors.HandleJobError(context.Background(), client, job, err)
	return err
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
