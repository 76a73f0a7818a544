package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/skillswap/internal/cache"
	"github.com/oggyb/skillswap/internal/storage"
)

// AppContext holds shared dependencies (DB, snapshot store, cache, logger).
// RedisCache may be nil; callers must treat the cache as optional.
type AppContext struct {
	DB         *gorm.DB
	Snapshots  storage.Store
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
}

// New creates a new AppContext
func New(db *gorm.DB, snapshots storage.Store, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	return &AppContext{
		DB:         db,
		Snapshots:  snapshots,
		RedisCache: rdb,
		Logger:     logger,
	}
}
