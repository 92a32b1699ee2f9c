// cmd/worker-manager/handlers.go
package main

import (
	"time"

	"campaign-builder/internal/common/camunda"
	"campaign-builder/internal/common/config"
	"campaign-builder/internal/common/logger"
	"campaign-builder/internal/dataset"
	"campaign-builder/internal/store"
	"campaign-builder/pkg/registry"

	// Dataset workers
	ld "campaign-builder/internal/workers/dataset/load-dataset"
	sd "campaign-builder/internal/workers/dataset/switch-dataset"
	vd "campaign-builder/internal/workers/dataset/validate-dataset"

	// Agent and qualification workers
	sao "campaign-builder/internal/workers/agent/save-agent-override"
	qc "campaign-builder/internal/workers/qualification/qualify-companies"

	// Outreach and campaign workers
	gc "campaign-builder/internal/workers/outreach/generate-contacts"
	mc "campaign-builder/internal/workers/campaign/manage-campaign"
	sc "campaign-builder/internal/workers/campaign/save-campaign"
)

type deps struct {
	manager   *dataset.Manager
	overrides *store.OverrideStore
	campaigns *store.CampaignStore
	failer    camunda.JobFailer
	log       logger.Logger
}

// newHandlers builds one handler per task type. A job timeout comes from the
// workers section of the configuration, then from the activity registry.
func newHandlers(cfg *config.Config, reg *registry.ActivityRegistry, d deps) map[string]camunda.JobHandler {
	timeout := func(taskType string) time.Duration {
		if _, ok := cfg.Workers[taskType]; !ok {
			if a, ok := reg.Lookup(taskType); ok {
				if t, err := a.TimeoutDuration(); err == nil && t > 0 {
					return t
				}
			}
		}
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	return map[string]camunda.JobHandler{
		ld.TaskType: ld.NewHandler(&ld.Config{Timeout: timeout(ld.TaskType)}, d.manager, d.overrides, d.failer, d.log),
		sd.TaskType: sd.NewHandler(&sd.Config{Timeout: timeout(sd.TaskType)}, d.manager, d.failer, d.log),
		vd.TaskType: vd.NewHandler(&vd.Config{Timeout: timeout(vd.TaskType)}, d.manager, d.failer, d.log),

		sao.TaskType: sao.NewHandler(&sao.Config{Timeout: timeout(sao.TaskType)}, d.manager, d.overrides, d.failer, d.log),
		qc.TaskType: qc.NewHandler(&qc.Config{
			Timeout: timeout(qc.TaskType),
			Seed:    cfg.Generation.Seed,
		}, d.manager, d.overrides, d.failer, d.log),

		gc.TaskType: gc.NewHandler(&gc.Config{
			Timeout:            timeout(gc.TaskType),
			ContactsPerPersona: cfg.Generation.ContactsPerPersona,
			Seed:               cfg.Generation.Seed,
		}, d.manager, d.failer, d.log),
		sc.TaskType: sc.NewHandler(&sc.Config{Timeout: timeout(sc.TaskType)}, d.campaigns, d.failer, d.log),
		mc.TaskType: mc.NewHandler(&mc.Config{Timeout: timeout(mc.TaskType)}, d.campaigns, d.failer, d.log),
	}
}
