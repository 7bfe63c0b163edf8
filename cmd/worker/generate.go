package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Dav-123/Easy-biz-ai-service/config"
	"github.com/Dav-123/Easy-biz-ai-service/internal/ai"
	"github.com/Dav-123/Easy-biz-ai-service/internal/bootstrap"
	"github.com/Dav-123/Easy-biz-ai-service/internal/generation/domain"
	genrepo "github.com/Dav-123/Easy-biz-ai-service/internal/generation/repository"
	genservice "github.com/Dav-123/Easy-biz-ai-service/internal/generation/service"
)

// RunGenerate reads a GenerationRequest from a JSON file, runs the matching
// pipeline against the configured providers and prints the finished task.
func RunGenerate(args []string) {
	if len(args) < 1 {
		log.Fatal("usage: worker generate <request.json>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("read request: %v", err)
	}

	var req domain.GenerationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		log.Fatalf("parse request: %v", err)
	}
	if req.ProjectID == "" {
		log.Fatal("project_id is required")
	}

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

	taskService := genservice.NewTaskService(genrepo.NewTaskRepository(rdb, cfg.App.TaskTTL))
	content := genservice.NewContentService(taskService, ai.NewService(cfg.Providers))

	task, err := startPipeline(ctx, content, &req)
	if err != nil {
		log.Fatalf("start generation: %v", err)
	}
	log.Printf("task %s accepted, waiting", task.TaskID)

	final, err := waitForTask(ctx, taskService, task.TaskID)
	if err != nil {
		log.Fatalf("wait: %v", err)
	}
	if final.Status == domain.StatusFailed {
		log.Fatalf("generation failed: %s", final.Error)
	}

	out, err := json.MarshalIndent(final, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))
}

func startPipeline(ctx context.Context, content *genservice.ContentService, req *domain.GenerationRequest) (*domain.Task, error) {
	switch req.GenerationType {
	case domain.TypeBrandKit:
		return content.GenerateBrandKit(ctx, req)
	case domain.TypeSocialMedia:
		return content.GenerateSocialMedia(ctx, req)
	case domain.TypeWebsiteContent:
		return content.GenerateWebsiteContent(ctx, req)
	case domain.TypeBusinessPlan:
		return content.GenerateBusinessPlan(ctx, req)
	case domain.TypeImageGeneration:
		return content.GenerateImage(ctx, req)
	}
	return nil, domain.ErrInvalidGenerationType
}

func waitForTask(ctx context.Context, tasks *genservice.TaskService, taskID string) (*domain.Task, error) {
	deadline := time.Now().Add(genservice.PipelineTimeout)
	for time.Now().Before(deadline) {
		task, err := tasks.GetTask(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if domain.Terminal(task.Status) {
			return task, nil
		}
		time.Sleep(time.Second)
	}
	return nil, fmt.Errorf("task %s did not finish in time", taskID)
}
