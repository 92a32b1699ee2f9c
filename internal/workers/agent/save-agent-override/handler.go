// internal/workers/agent/save-agent-override/handler.go
package saveagentoverride

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"campaign-builder/internal/catalog"
	"campaign-builder/internal/common/camunda"
	"campaign-builder/internal/common/errors"
	"campaign-builder/internal/common/logger"
	"campaign-builder/internal/dataset"
	"campaign-builder/internal/store"
)

const (
	TaskType = "save-agent-override"
)

type Handler struct {
	config    *Config
	datasets  *dataset.Manager
	overrides *store.OverrideStore
	errors    camunda.JobFailer
	logger    logger.Logger
}

func NewHandler(config *Config, datasets *dataset.Manager, overrides *store.OverrideStore, failer camunda.JobFailer, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		datasets:  datasets,
		overrides: overrides,
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
	bundle, err := h.datasets.ActiveDataset(ctx)
	if err != nil {
		return nil, err
	}
	cat := catalog.New(bundle, h.overrides, h.logger)

	known := false
	for _, a := range cat.CanonicalAgents() {
		if a.ID == input.AgentID {
			known = true
			break
		}
	}
	if !known {
		return nil, errors.NewAgentNotFoundError(input.AgentID)
	}

	output := &Output{Reset: input.Reset}
	switch {
	case input.Reset:
		if err := h.overrides.Reset(ctx, input.AgentID); err != nil {
			return nil, err
		}
	case len(input.Override) == 0:
		return nil, errors.NewInvalidInputError("override is required unless reset is set")
	default:
		stored, err := h.overrides.Save(ctx, input.AgentID, input.Override)
		if err != nil {
			return nil, err
		}
		output.Override = stored
	}

	agent, _ := cat.AgentByID(ctx, input.AgentID)
	output.Agent = agent

	h.logger.Info("agent override stored", map[string]interface{}{
		"agentId":      input.AgentID,
		"reset":        input.Reset,
		"questionType": string(agent.QuestionType),
	})
	return output, nil
}

func (h *Handler) fail(client worker.JobClient, job entities.Job, err error) error {
	h.errors.HandleJobError(context.Background(), client, job, err)
	return err
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
