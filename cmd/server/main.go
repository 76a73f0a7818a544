package main

import (
	"context"
	"net/http"

	"github.com/oggyb/skillswap/internal/app"
	"github.com/oggyb/skillswap/internal/cache"
	"github.com/oggyb/skillswap/internal/config"
	"github.com/oggyb/skillswap/internal/db"
	"github.com/oggyb/skillswap/internal/logger"
	"github.com/oggyb/skillswap/internal/server"
	"github.com/oggyb/skillswap/internal/service/swap"
	"github.com/oggyb/skillswap/internal/storage"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Snapshot store: only the embedded sqlite store needs one; a MySQL
	// deployment is durable on its own.
	var snapshots storage.Store
	if cfg.DB.Driver != "mysql" {
		fs, err := storage.NewFileStore(cfg.Snapshot.Dir)
		if err != nil {
			log.Error("failed to init snapshot store", "err", err)
			return
		}
		snapshots = fs
	}

	// Redis is optional; run without the counter cache when unreachable.
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		redisCache = cache.NewRedisCache(cfg)
		if err := redisCache.Ping(context.Background()); err != nil {
			log.Warn("redis unreachable, running without counter cache", "err", err)
			redisCache = nil
		}
	}

	appCtx := app.New(database, snapshots, redisCache, log)

	svc := swap.NewService(appCtx)
	if err := svc.Initialize(context.Background()); err != nil {
		log.Error("failed to initialize store", "err", err)
		return
	}
	defer svc.Close()

	handler := server.New(cfg, svc)
	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting http server", "addr", addr)

	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Error("http server stopped", "err", err)
	}
}
