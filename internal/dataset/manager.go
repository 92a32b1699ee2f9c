// Package dataset resolves, loads, caches and validates dataset bundles.
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "campaign-builder/internal/common/errors"
	"campaign-builder/internal/common/logger"
	"campaign-builder/internal/common/metrics"
	"campaign-builder/internal/common/validation"
	"campaign-builder/internal/models"
	"campaign-builder/internal/store"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultName is used when neither the store nor the pointer document name
// an active dataset.
const DefaultName = "segment-saas"

// fetchTimeout bounds a shared first load, which outlives any one caller.
const fetchTimeout = 30 * time.Second

var errNoStore = errors.New("no store configured")

// Manager owns the dataset cache. Bundles are cached by name until
// ClearCache is called, and concurrent first loads of a name share a
// single fetch.
type Manager struct {
	source      Source
	kv          store.Store
	defaultName string
	cache       *cache.Cache
	group       singleflight.Group
	logger      logger.Logger
}

func NewManager(source Source, kv store.Store, defaultName string, log logger.Logger) *Manager {
	if defaultName == "" {
		defaultName = DefaultName
	}
	return &Manager{
		source:      source,
		kv:          kv,
		defaultName: defaultName,
		cache:       cache.New(cache.NoExpiration, 0),
		logger:      log.WithFields(map[string]interface{}{"component": "dataset-manager"}),
	}
}

// ActiveDatasetName resolves the active dataset: the name recorded by
// SwitchDataset, then the pointer document, then the default. It never fails.
func (m *Manager) ActiveDatasetName(ctx context.Context) string {
	if name := m.recordedName(ctx); name != "" {
		return name
	}

	raw, err := m.source.ReadPointer(ctx)
	if err != nil {
		m.logger.Debug("active dataset pointer unavailable, using default", map[string]interface{}{
			"default": m.defaultName,
			"error":   err.Error(),
		})
		return m.defaultName
	}

	var pointer struct {
		ActiveDataset string `json:"activeDataset"`
	}
	if err := json.Unmarshal(raw, &pointer); err != nil || strings.TrimSpace(pointer.ActiveDataset) == "" {
		m.logger.Warn("active dataset pointer unreadable, using default", map[string]interface{}{
			"default": m.defaultName,
		})
		return m.defaultName
	}
	return pointer.ActiveDataset
}

func (m *Manager) recordedName(ctx context.Context) string {
	if m.kv == nil {
		return ""
	}
	raw, ok, err := m.kv.Get(ctx, store.KeyActiveDataset)
	if err != nil {
		m.logger.Warn("failed to read recorded active dataset", map[string]interface{}{"error": err.Error()})
		return ""
	}
	if !ok {
		return ""
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		m.logger.Warn("ignoring corrupt recorded active dataset", map[string]interface{}{"error": err.Error()})
		return ""
	}
	return name
}

// LoadDataset returns the named bundle, reading it from the source on the
// first call. Repeat calls return the same *Bundle until ClearCache.
// Failures are *errors.StandardError values and are never cached.
func (m *Manager) LoadDataset(ctx context.Context, name string) (*models.Bundle, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewDatasetNotFoundError(name)
	}

	if b, ok := m.cache.Get(name); ok {
		metrics.DatasetCacheLookups.WithLabelValues("hit").Inc()
		return b.(*models.Bundle), nil
	}
	metrics.DatasetCacheLookups.WithLabelValues("miss").Inc()

	v, err, _ := m.group.Do(name, func() (interface{}, error) {
		if b, ok := m.cache.Get(name); ok {
			return b, nil
		}
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		b, err := m.fetch(fctx, name)
		if err != nil {
			metrics.DatasetLoads.WithLabelValues(name, "failed").Inc()
			return nil, err
		}
		m.cache.Set(name, b, cache.NoExpiration)
		metrics.DatasetLoads.WithLabelValues(name, "loaded").Inc()
		m.logger.Info("dataset loaded", map[string]interface{}{
			"dataset":   name,
			"version":   b.Config.Version,
			"companies": len(b.Companies.Companies),
		})
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Bundle), nil
}

// fetch reads the five documents concurrently. The first failure cancels
// the remaining reads.
func (m *Manager) fetch(ctx context.Context, name string) (*models.Bundle, error) {
	b := &models.Bundle{Name: name}

	g, gctx := errgroup.WithContext(ctx)
	read := func(doc string, into interface{}) {
		g.Go(func() error {
			raw, err := m.source.ReadDocument(gctx, name, doc)
			if err != nil {
				return apperrors.NewDatasetLoadError(name, doc, err)
			}
			if err := json.Unmarshal(raw, into); err != nil {
				return apperrors.NewDatasetLoadError(name, doc, fmt.Errorf("decode: %w", err))
			}
			return nil
		})
	}
	read(models.DocConfig, &b.Config)
	read(models.DocCompanies, &b.Companies)
	read(models.DocAgents, &b.Agents)
	read(models.DocPersonas, &b.Personas)
	read(models.DocResults, &b.Results)

	if err := g.Wait(); err != nil {
		m.logger.Error("dataset load failed", map[string]interface{}{
			"dataset": name,
			"error":   err,
		})
		return nil, err
	}
	return b, nil
}

// ActiveDataset loads the active dataset.
func (m *Manager) ActiveDataset(ctx context.Context) (*models.Bundle, error) {
	return m.LoadDataset(ctx, m.ActiveDatasetName(ctx))
}

// SwitchDataset makes name the active dataset if it loads and passes
// validation. On failure the active dataset is left unchanged.
func (m *Manager) SwitchDataset(ctx context.Context, name string) bool {
	return m.Switch(ctx, name) == nil
}

// Switch is SwitchDataset reporting why a switch was rejected. A bundle that
// loads but fails validation yields DATASET_INVALID carrying its messages.
func (m *Manager) Switch(ctx context.Context, name string) error {
	b, err := m.LoadDataset(ctx, name)
	if err != nil {
		m.logger.Warn("dataset switch rejected", map[string]interface{}{"dataset": name, "error": err})
		return err
	}
	if res := Validate(b); !res.Valid {
		m.logger.Warn("dataset switch rejected, bundle invalid", map[string]interface{}{
			"dataset": name,
			"errors":  res.Errors,
		})
		return apperrors.NewDatasetInvalidError(name, res.Errors)
	}
	if m.kv == nil {
		return apperrors.NewStorageWriteError(store.KeyActiveDataset, errNoStore)
	}

	raw, _ := json.Marshal(name)
	if err := m.kv.Set(ctx, store.KeyActiveDataset, raw); err != nil {
		m.logger.Error("failed to record active dataset", map[string]interface{}{"dataset": name, "error": err})
		return apperrors.Normalize(err)
	}
	m.logger.Info("active dataset switched", map[string]interface{}{"dataset": name})
	return nil
}

// ValidateDataset is Validate exposed on the manager.
func (m *Manager) ValidateDataset(b *models.Bundle) validation.Result {
	return Validate(b)
}

// ClearCache drops every cached bundle.
func (m *Manager) ClearCache() {
	m.cache.Flush()
	m.logger.Debug("dataset cache cleared", nil)
}

// ListDatasets returns the names of the datasets the source offers.
func (m *Manager) ListDatasets(ctx context.Context) ([]string, error) {
	names, err := m.source.List(ctx)
	if err != nil {
		return nil, apperrors.NewDatasetLoadError("*", "", err)
	}
	return names, nil
}
