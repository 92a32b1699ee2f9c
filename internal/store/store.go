// Package store persists the wizard's local state (agent overrides,
// campaigns, the active dataset) in a key/value backend.
package store

import (
	"context"
	"fmt"

	"campaign-builder/internal/common/config"
	"campaign-builder/internal/common/database"
	"campaign-builder/internal/common/logger"
)

// Keys written by this module.
const (
	KeyModifiedAgents = "modifiedAgents"
	KeyCampaigns      = "campaigns"
	KeyLegacyCampaign = "campaignData"
	KeyActiveCampaign = "activeCampaignId"
	KeyActiveDataset  = "activeDataset"
)

// UpdateFunc receives the current value of a key and returns the value to
// write. Returning a nil slice deletes the key.
type UpdateFunc func(current []byte, exists bool) ([]byte, error)

// Store is a key/value backend. Update runs fn as a serialized
// read-modify-write for that key so concurrent writers do not lose updates.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// Open builds the backend selected by cfg.Storage.Backend. The returned
// close function releases any connection the backend opened.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (Store, func() error, error) {
	switch cfg.Storage.Backend {
	case config.StorageRedis:
		rdb := database.NewRedis(cfg.Database.Redis)
		if err := database.PingRedis(ctx, rdb); err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		log.Info("using redis store", map[string]interface{}{"address": cfg.Database.Redis.Address})
		return NewRedisStore(rdb, cfg.Storage.KeyPrefix), rdb.Close, nil

	case config.StoragePostgres:
		db, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if err := database.PingPostgres(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		pg, err := NewPostgresStore(db, cfg.Storage.Table)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("using postgres store", map[string]interface{}{"table": cfg.Storage.Table})
		return pg, db.Close, nil

	case config.StorageMemory, "":
		log.Info("using in-memory store", nil)
		return NewMemoryStore(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
