package service

import (
	"context"
	"time"

	"github.com/Dav-123/Easy-biz-ai-service/internal/generation/domain"
	"github.com/Dav-123/Easy-biz-ai-service/internal/generation/repository"
	"github.com/redis/go-redis/v9"
)

// TaskService owns the task lifecycle on top of the Redis repository.
type TaskService struct {
	repo *repository.TaskRepository
}

func NewTaskService(repo *repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// CreateTask registers a new pending task for a project.
func (s *TaskService) CreateTask(ctx context.Context, projectID string, genType domain.GenerationType) (*domain.Task, error) {
	if !domain.IsValidType(genType) {
		return nil, domain.ErrInvalidGenerationType
	}

	task := &domain.Task{
		ProjectID:      projectID,
		GenerationType: genType,
		Status:         domain.StatusPending,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask retrieves a task by ID.
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	return s.repo.Get(ctx, taskID)
}

// MarkProcessing transitions a task to processing.
func (s *TaskService) MarkProcessing(ctx context.Context, taskID string) error {
	return s.transition(ctx, taskID, domain.StatusProcessing, nil, "")
}

// Complete transitions a task to completed with its result.
func (s *TaskService) Complete(ctx context.Context, taskID string, result map[string]interface{}) error {
	return s.transition(ctx, taskID, domain.StatusCompleted, result, "")
}

// Fail transitions a task to failed with an error message.
func (s *TaskService) Fail(ctx context.Context, taskID string, errMsg string) error {
	return s.transition(ctx, taskID, domain.StatusFailed, nil, errMsg)
}

func (s *TaskService) transition(ctx context.Context, taskID, status string, result map[string]interface{}, errMsg string) error {
	task, err := s.repo.Get(ctx, taskID)
	if err != nil {
		return err
	}

	task.Status = status
	if result != nil {
		task.Result = result
	}
	task.Error = errMsg
	if domain.Terminal(status) {
		now := time.Now().UTC()
		task.CompletedAt = &now
	}

	return s.repo.Update(ctx, task)
}

// Subscribe returns a subscription to the task's update events.
func (s *TaskService) Subscribe(ctx context.Context, taskID string) *redis.PubSub {
	return s.repo.Subscribe(ctx, taskID)
}

// ListByProject retrieves all task IDs for a project.
func (s *TaskService) ListByProject(ctx context.Context, projectID string) ([]string, error) {
	return s.repo.ListByProject(ctx, projectID)
}

// DeleteTask deletes a task.
func (s *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	return s.repo.Delete(ctx, taskID)
}
