// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"campaign-builder/internal/common/config"
	"campaign-builder/internal/common/errors"
	"campaign-builder/internal/common/logger"
	"campaign-builder/internal/common/metrics"
	"campaign-builder/internal/common/observability"
	"campaign-builder/internal/common/validation"
	"campaign-builder/pkg/registry"
)

// JobHandler processes one job. It completes or fails the job itself and
// returns the error it failed with.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job) error
}

// JobFailer reports a job failure to the broker.
type JobFailer interface {
	HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error)
}

// Worker wraps a JobHandler with input validation and job metrics.
type Worker struct {
	taskType string
	handler  JobHandler
	failer   JobFailer
	schema   *validation.Schema
	obs      *observability.Observability
	logger   logger.Logger
}

type Option func(*Worker)

// WithInputSchema rejects jobs whose variables do not match schema.
func WithInputSchema(schema *validation.Schema) Option {
	return func(w *Worker) { w.schema = schema }
}

func WithObservability(obs *observability.Observability) Option {
	return func(w *Worker) { w.obs = obs }
}

func NewWorker(taskType string, handler JobHandler, failer JobFailer, log logger.Logger, opts ...Option) *Worker {
	w := &Worker{
		taskType: taskType,
		handler:  handler,
		failer:   failer,
		logger:   log.WithFields(map[string]interface{}{"taskType": taskType}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// InputSchema compiles the registered input schema for taskType. A task type
// without a registry entry has no schema.
func InputSchema(reg *registry.ActivityRegistry, taskType string) (*validation.Schema, error) {
	activity, ok := reg.Lookup(taskType)
	if !ok || len(activity.InputSchema) == 0 {
		return nil, nil
	}
	schema, err := validation.CompileGo(activity.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("input schema for %s: %w", taskType, err)
	}
	return schema, nil
}

// Handle matches the Zeebe handler signature.
func (w *Worker) Handle(client worker.JobClient, job entities.Job) {
	metrics.WorkerJobsActive.WithLabelValues(w.taskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(w.taskType).Dec()

	start := time.Now()
	err := w.process(client, job)
	elapsed := time.Since(start)

	metrics.WorkerJobDuration.WithLabelValues(w.taskType).Observe(elapsed.Seconds())
	status := "completed"
	if err != nil {
		status = "failed"
		metrics.WorkerJobsFailed.WithLabelValues(w.taskType, errors.CodeOf(err)).Inc()
	} else {
		metrics.WorkerJobsCompleted.WithLabelValues(w.taskType).Inc()
	}
	w.obs.RecordJob(context.Background(), w.taskType, status, elapsed)
}

func (w *Worker) process(client worker.JobClient, job entities.Job) error {
	if w.schema != nil {
		if res := w.schema.ValidateJSON(job.Variables); !res.Valid {
			err := errors.NewInvalidInputError(strings.Join(res.Errors, "; "))
			w.logger.Warn("job variables rejected", map[string]interface{}{
				"jobKey": job.Key,
				"errors": res.Errors,
			})
			w.failer.HandleJobError(context.Background(), client, job, err)
			return err
		}
	}
	return w.handler.Handle(client, job)
}

// Open starts polling for the worker's task type. Disabled workers are not
// opened and nil is returned.
func (w *Worker) Open(client zbc.Client, wcfg config.WorkerConfig) worker.JobWorker {
	if !wcfg.Enabled {
		w.logger.Info("worker disabled", nil)
		return nil
	}

	jw := client.NewJobWorker().
		JobType(w.taskType).
		Handler(w.Handle).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	w.logger.Info("worker started", map[string]interface{}{
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jw
}

// CompleteJob completes job with output as its variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("create complete job command: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("send complete job command: %w", err)
	}
	return nil
}
