package main

import (
	"context"
	"log"

	"github.com/Dav-123/Easy-biz-ai-service/config"
	assetrepo "github.com/Dav-123/Easy-biz-ai-service/internal/assets/repository"
	"github.com/Dav-123/Easy-biz-ai-service/internal/bootstrap"
	genrepo "github.com/Dav-123/Easy-biz-ai-service/internal/generation/repository"
	"github.com/Dav-123/Easy-biz-ai-service/internal/maintenance"
)

// RunPrune executes one maintenance pass and exits.
func RunPrune() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	var assets *assetrepo.AssetRepository
	if cfg.Database.DSN != "" {
		pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
			DSN:      cfg.Database.DSN,
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer pool.Close()
		assets = assetrepo.New(pool)
	}

	taskRepo := genrepo.NewTaskRepository(rdb, cfg.App.TaskTTL)
	maintenance.NewScheduler(taskRepo, assets, cfg.App.AssetRetentionDays).RunOnce()
	log.Println("maintenance pass complete")
}
