package kvstore

import (
	"fmt"

	"storefront/internal/config"
)

const redisKeyPrefix = "storefront:"

// New opens the backend named by cfg.StoreBackend, wrapped with metrics.
func New(cfg *config.Config) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.StoreBackend {
	case config.BackendMemory:
		store = NewMemoryStore()
	case config.BackendSQLite:
		store, err = NewSQLiteStore(cfg.SQLitePath)
	case config.BackendPostgres:
		store, err = NewPostgresStore(cfg.PostgresDSN)
	case config.BackendRedis:
		store, err = NewRedisStore(cfg.RedisAddr, redisKeyPrefix)
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.StoreBackend)
	}
	if err != nil {
		return nil, err
	}

	return Instrument(store, cfg.StoreBackend), nil
}
