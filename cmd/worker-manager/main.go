// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"campaign-builder/internal/common/camunda"
	"campaign-builder/internal/common/config"
	cberrors "campaign-builder/internal/common/errors"
	"campaign-builder/internal/common/logger"
	"campaign-builder/internal/common/observability"
	"campaign-builder/internal/dataset"
	"campaign-builder/internal/store"
	"campaign-builder/pkg/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("storage", cfg.Storage.Backend),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe client, retried until the gateway answers ---
	client, err := camunda.NewClient(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}

	// --- Storage ---
	kv, closeStore, err := store.Open(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("storage init failed", zap.Error(err))
	}
	defer func() {
		if err := closeStore(); err != nil {
			zapLog.Error("Error closing storage", zap.Error(err))
		}
	}()

	campaigns, err := store.NewCampaignStore(ctx, kv, log)
	if err != nil {
		zapLog.Fatal("campaign store init failed", zap.Error(err))
	}
	overrides := store.NewOverrideStore(kv, log)

	// --- Datasets ---
	source := dataset.Bundled()
	if cfg.Datasets.Dir != "" {
		source = dataset.NewDirSource(cfg.Datasets.Dir)
		zapLog.Info("loading datasets from directory", zap.String("dir", cfg.Datasets.Dir))
	}
	manager := dataset.NewManager(source, kv, cfg.Datasets.DefaultName, log)
	if _, err := manager.LoadDataset(ctx, manager.ActiveDatasetName(ctx)); err != nil {
		// The workers report load failures per job; startup only warns.
		zapLog.Warn("active dataset failed to load", zap.Error(err))
	}

	// --- Workers ---
	failer := cberrors.NewErrorHandler(log)
	reg, err := registry.Default()
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}

	handlers := newHandlers(cfg, reg, deps{
		manager:   manager,
		overrides: overrides,
		campaigns: campaigns,
		failer:    failer,
		log:       log,
	})

	var jobWorkers []worker.JobWorker
	for _, taskType := range reg.TaskTypes() {
		handler, ok := handlers[taskType]
		if !ok {
			zapLog.Warn("registered activity has no handler", zap.String("taskType", taskType))
			continue
		}
		schema, err := camunda.InputSchema(reg, taskType)
		if err != nil {
			zapLog.Fatal("invalid input schema", zap.String("taskType", taskType), zap.Error(err))
		}

		w := camunda.NewWorker(taskType, handler, failer, log,
			camunda.WithInputSchema(schema),
			camunda.WithObservability(obs),
		)
		if jw := w.Open(client.Zeebe(), config.GetWorkerConfig(cfg, taskType)); jw != nil {
			jobWorkers = append(jobWorkers, jw)
		}
	}
	zapLog.Info("Workers registered", zap.Int("count", len(jobWorkers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", "")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := client.HealthCheck(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "unavailable", err.Error())
			return
		}
		writeStatus(w, http.StatusOK, "ready", "")
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Metrics.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zapLog.Info("Health/Metrics server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// --- Graceful Shutdown ---
	g.Go(func() error {
		<-gctx.Done()
		zapLog.Info("Shutdown signal received, stopping workers...")

		for _, jw := range jobWorkers {
			jw.Close()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
		}
		if err := client.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		zapLog.Error("Health/Metrics server failed", zap.Error(err))
	}
	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status, detail string) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if detail != "" {
		body["error"] = detail
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
