package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dav-123/Easy-biz-ai-service/config"
	"github.com/Dav-123/Easy-biz-ai-service/internal/ai"
	assetrepo "github.com/Dav-123/Easy-biz-ai-service/internal/assets/repository"
	"github.com/Dav-123/Easy-biz-ai-service/internal/bootstrap"
	genrepo "github.com/Dav-123/Easy-biz-ai-service/internal/generation/repository"
	genservice "github.com/Dav-123/Easy-biz-ai-service/internal/generation/service"
	"github.com/Dav-123/Easy-biz-ai-service/internal/maintenance"
	"github.com/Dav-123/Easy-biz-ai-service/internal/storage/objstore"
	"github.com/Dav-123/Easy-biz-ai-service/internal/usage"
	"github.com/jackc/pgx/v5/pgxpool"
)

const serviceName = "EasyBiz AI Service"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	var pool *pgxpool.Pool
	var assetRepository *assetrepo.AssetRepository
	if cfg.Database.DSN != "" {
		pool, err = bootstrap.OpenDB(ctx, bootstrap.DBOptions{
			DSN:      cfg.Database.DSN,
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer pool.Close()

		assetRepository = assetrepo.New(pool)
		if err := assetRepository.EnsureSchema(ctx); err != nil {
			log.Fatalf("db schema: %v", err)
		}
	} else {
		log.Println("DB_DSN not set, asset persistence disabled")
	}

	if !cfg.HasAnyProvider() {
		log.Println("Warning: no AI provider keys configured, all generations will fail")
	}

	aiService := ai.NewService(cfg.Providers)
	taskRepo := genrepo.NewTaskRepository(rdb, cfg.App.TaskTTL)
	taskService := genservice.NewTaskService(taskRepo)
	usageRecorder := usage.NewRecorder(rdb)

	contentService := genservice.NewContentService(taskService, aiService).WithUsage(usageRecorder)
	if assetRepository != nil {
		contentService.WithAssets(assetRepository)
	}
	if cfg.Storage.S3Bucket != "" {
		store, err := objstore.New(ctx, cfg.Storage.S3Bucket, cfg.Storage.AWSRegion)
		if err != nil {
			log.Fatalf("s3: %v", err)
		}
		contentService.WithImageStore(store)
	}

	scheduler := maintenance.NewScheduler(taskRepo, assetRepository, cfg.App.AssetRetentionDays)
	scheduler.Start()
	defer scheduler.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:        serviceName,
		Version:            cfg.App.Version,
		APIKey:             cfg.Server.APIKey,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		MonthlyQuota:       cfg.App.MonthlyQuota,
		Redis:              rdb,
		DB:                 pool,
		Probe:              aiService,
		Content:            contentService,
		Tasks:              taskService,
		Usage:              usageRecorder,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
