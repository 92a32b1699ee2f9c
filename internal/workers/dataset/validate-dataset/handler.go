// internal/workers/dataset/validate-dataset/handler.go
package validatedataset

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"campaign-builder/internal/common/camunda"
	"campaign-builder/internal/common/errors"
	"campaign-builder/internal/common/logger"
	"campaign-builder/internal/dataset"
)

const (
	TaskType = "validate-dataset"
)

type Handler struct {
	config   *Config
	datasets *dataset.Manager
	errors   camunda.JobFailer
	logger   logger.Logger
}

func NewHandler(config *Config, datasets *dataset.Manager, failer camunda.JobFailer, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		datasets: datasets,
		errors:   failer,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
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

	output := h.execute(ctx, &input)
	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err.Error()})
		return err
	}
	return nil
}

// execute reports load failures as validation errors.
func (h *Handler) execute(ctx context.Context, input *Input) *Output {
	name := input.DatasetName
	if name == "" {
		name = h.datasets.ActiveDatasetName(ctx)
	}

	bundle, err := h.datasets.LoadDataset(ctx, name)
	if err != nil {
		stdErr := errors.Normalize(err)
		msg := stdErr.Message
		if stdErr.Details != "" {
			msg += ": " + stdErr.Details
		}
		return &Output{DatasetName: name, Valid: false, Errors: []string{msg}}
	}

	res := h.datasets.ValidateDataset(bundle)
	if !res.Valid {
		h.logger.Warn("dataset failed validation", map[string]interface{}{
			"dataset": name,
			"errors":  res.Errors,
		})
	}
	return &Output{DatasetName: name, Valid: res.Valid, Errors: res.Errors}
}

func (h *Handler) fail(client worker.JobClient, job entities.Job, err error) error {
	h.errors.HandleJobError(context.Background(), client, job, err)
	return err
}

func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	return h.execute(ctx, input)
}
