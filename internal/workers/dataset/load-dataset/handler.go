// internal/workers/dataset/load-dataset/handler.go
package loaddataset

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
)

const (
	TaskType = "load-dataset"
)

type Handler struct {
	config    *Config
	datasets  *dataset.Manager
	overrides catalog.OverrideSource
	errors    camunda.JobFailer
	logger    logger.Logger
}

func NewHandler(config *Config, datasets *dataset.Manager, overrides catalog.OverrideSource, failer camunda.JobFailer, log logger.Logger) *Handler {
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
	if input.ClearCache {
		h.datasets.ClearCache()
	}

	name := input.DatasetName
	if name == "" {
		name = h.datasets.ActiveDatasetName(ctx)
	}

	bundle, err := h.datasets.LoadDataset(ctx, name)
	if err != nil {
		return nil, err
	}

	available, err := h.datasets.ListDatasets(ctx)
	if err != nil {
		h.logger.Warn("could not list datasets", map[string]interface{}{"error": err.Error()})
		available = []string{}
	}

	cat := catalog.New(bundle, h.overrides, h.logger)
	output := &Output{
		DatasetName:       name,
		Config:            bundle.Config,
		Companies:         cat.Companies(),
		Agents:            cat.Agents(ctx),
		Personas:          cat.Personas(),
		PersonaCategories: cat.PersonaCategories(),
		LegacyPersonas:    cat.LegacyPersonas(),
		AvailableDatasets: available,
	}

	h.logger.Info("dataset loaded", map[string]interface{}{
		"dataset":   name,
		"companies": len(output.Companies),
		"agents":    len(output.Agents),
		"personas":  len(output.Personas),
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
