// internal/workers/outreach/generate-contacts/handler.go
package generatecontacts

import (
	"context"
	"encoding/json"
	"fmt"
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
	"campaign-builder/internal/generator/contacts"
	"campaign-builder/internal/models"
)

const (
	TaskType = "generate-contacts"
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
	cat := catalog.New(bundle, nil, h.logger)

	personas := input.PersonaNames
	if len(personas) == 0 {
		personas = cat.PersonaNames()
	}
	count := h.config.ContactsPerPersona
	if input.Count != nil {
		count = *input.Count
	}

	gen := contacts.New(h.random(input.Seed))

	var out []models.Contact
	switch {
	case input.CompanyID != "":
		company, ok := cat.CompanyByID(input.CompanyID)
		if !ok {
			return nil, errors.NewInvalidInputError(fmt.Sprintf("unknown company %q", input.CompanyID))
		}
		out = gen.ForCompany(company, personas, count, input.CompanyIndex)
	case len(input.CompanyIDs) > 0:
		companies := cat.CompaniesByIDs(input.CompanyIDs)
		if len(companies) == 0 {
			return nil, errors.NewInvalidInputError("none of the companyIds are in the active dataset")
		}
		out = gen.ForCompanies(companies, personas, count)
	default:
		return nil, errors.NewInvalidInputError("companyId or companyIds is required")
	}

	byStatus := map[string]int{}
	for _, c := range out {
		byStatus[string(c.Status)]++
		metrics.ContactsGenerated.WithLabelValues(string(c.Status)).Inc()
	}

	h.logger.Info("contacts generated", map[string]interface{}{
		"contacts": len(out),
		"personas": len(personas),
	})
	return &Output{Contacts: out, ByStatus: byStatus}, nil
}

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
