// internal/workers/qualification/qualify-companies/handler.go
package qualifycompanies

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"campaign-builder/internal/catalog"
	"campaign-builder/internal/common/camunda"
	"campaign-builder/internal/common/errors"
	"campaign-builder/internal/common/logger"
	"campaign-builder/internal/common/metrics"
	"campaign-builder/internal/dataset"
	"campaign-builder/internal/generator/results"
)

const (
	TaskType = "qualify-companies"
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
	bundle, err := h.datasets.ActiveDataset(ctx)
	if err != nil {
		return nil, err
	}
	cat := catalog.New(bundle, h.overrides, h.logger)

	agent, ok := cat.AgentByID(ctx, input.AgentID)
	if !ok {
		return nil, errors.NewAgentNotFoundError(input.AgentID)
	}

	gen := results.New(bundle.Results.Results, h.random(input.Seed))
	res := gen.Generate(agent, cat.CompaniesByIDs(input.CompanyIDs), cat.Companies())
	summary := results.Summarize(res)

	for _, r := range res {
		metrics.QualificationResults.WithLabelValues(agent.ID, string(r.Bucket())).Inc()
	}

	h.logger.Info("qualification complete", map[string]interface{}{
		"agentId":     agent.ID,
		"dataset":     bundle.Name,
		"qualified":   summary.Qualified,
		"needsReview": summary.NeedsReview,
		"unqualified": summary.Unqualified,
	})

	return &Output{
		AgentID:          agent.ID,
		QuestionType:     agent.QuestionType,
		ResearchQuestion: agent.RewriteQuestion(),
		Results:          res,
		Summary:          summary,
		NotEnoughData:    len(res) == 0,
	}, nil
}

// random gives each job its own source; *rand.Rand is not safe for
// concurrent use.
func (h *Handler) random(seed int64) *rand.Rand {
	if seed == 0 {
		seed = h.config.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func (h *Handler) fail(client worker.JobClient, job entities.Job, err error) error {
	h.errors.HandleJobError(context.Background(), client, job, err)
	return err
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
