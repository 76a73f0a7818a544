package main

import (
	"context"
	"log"

	"github.com/oggyb/skillswap/internal/app"
	"github.com/oggyb/skillswap/internal/config"
	"github.com/oggyb/skillswap/internal/db"
	"github.com/oggyb/skillswap/internal/logger"
	"github.com/oggyb/skillswap/internal/service/swap"
	"github.com/oggyb/skillswap/internal/storage"
)

// Resets the store to the demo dataset and overwrites the snapshot.
func main() {
	cfg := config.New()
	logger.InitFromConfig(cfg)

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	snapshots, err := storage.NewFileStore(cfg.Snapshot.Dir)
	if err != nil {
		log.Fatalf("failed to init snapshot store: %v", err)
	}

	svc := swap.NewService(app.New(database, snapshots, nil, logger.L()))
	if err := svc.Reseed(context.Background()); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Println("Seeding completed.")
}
