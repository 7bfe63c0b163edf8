package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dav-123/Easy-biz-ai-service/internal/generation/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	taskKeyPrefix   = "ez:task:"    // Key for task data: ez:task:{task_id}
	projectTaskSet  = "ez:project:" // Set of task IDs per project: ez:project:{project_id}:tasks
	taskEventPrefix = "ez:events:"  // Pub/Sub channel for task events: ez:events:{task_id}
)

// TaskRepository handles Redis operations for generation tasks.
type TaskRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTaskRepository creates a new TaskRepository. ttl bounds how long task
// data and project indexes live after their last write.
func NewTaskRepository(client *redis.Client, ttl time.Duration) *TaskRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TaskRepository{client: client, ttl: ttl}
}

// Create stores a new task and indexes it under its project.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task.TaskID == "" {
		task.TaskID = uuid.New().String()
	}
	if task.Status == "" {
		task.Status = domain.StatusPending
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.taskKey(task.TaskID), data, r.ttl)
	if task.ProjectID != "" {
		setKey := r.projectTasksKey(task.ProjectID)
		pipe.SAdd(ctx, setKey, task.TaskID)
		pipe.Expire(ctx, setKey, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// Get retrieves a task by its ID.
func (r *TaskRepository) Get(ctx context.Context, taskID string) (*domain.Task, error) {
	data, err := r.client.Get(ctx, r.taskKey(taskID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	var task domain.Task
	if err := json.Unmarshal([]byte(data), &task); err != nil {
		return nil, fmt.Errorf("unmarshal task: %w", err)
	}
	return &task, nil
}

// Update rewrites a task and publishes it on the task's event channel so
// stream consumers see every status transition.
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	task.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	if err := r.client.Set(ctx, r.taskKey(task.TaskID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	if task.Status != "" {
		r.client.Publish(ctx, r.eventChannel(task.TaskID), data)
	}
	return nil
}

// ListByProject retrieves all known task IDs for a project.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.projectTasksKey(projectID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list project tasks: %w", err)
	}
	return ids, nil
}

// Delete removes a task and its project index entry.
func (r *TaskRepository) Delete(ctx context.Context, taskID string) error {
	task, err := r.Get(ctx, taskID)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.taskKey(taskID))
	if task.ProjectID != "" {
		pipe.SRem(ctx, r.projectTasksKey(task.ProjectID), taskID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// PruneProjectIndexes drops task IDs from project sets whose task keys have
// already expired. Returns how many stale entries were removed.
func (r *TaskRepository) PruneProjectIndexes(ctx context.Context) (int, error) {
	removed := 0
	iter := r.client.Scan(ctx, 0, projectTaskSet+"*:tasks", 100).Iterator()
	for iter.Next(ctx) {
		setKey := iter.Val()
		ids, err := r.client.SMembers(ctx, setKey).Result()
		if err != nil {
			return removed, fmt.Errorf("prune read %s: %w", setKey, err)
		}
		for _, id := range ids {
			exists, err := r.client.Exists(ctx, r.taskKey(id)).Result()
			if err != nil {
				return removed, fmt.Errorf("prune check %s: %w", id, err)
			}
			if exists == 0 {
				if err := r.client.SRem(ctx, setKey, id).Err(); err != nil {
					return removed, fmt.Errorf("prune remove %s: %w", id, err)
				}
				removed++
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("prune scan: %w", err)
	}
	return removed, nil
}

// Subscribe returns a subscription to the task's event channel.
func (r *TaskRepository) Subscribe(ctx context.Context, taskID string) *redis.PubSub {
	return r.client.Subscribe(ctx, r.eventChannel(taskID))
}

func (r *TaskRepository) taskKey(taskID string) string {
	return taskKeyPrefix + taskID
}

func (r *TaskRepository) projectTasksKey(projectID string) string {
	return fmt.Sprintf("%s%s:tasks", projectTaskSet, projectID)
}

func (r *TaskRepository) eventChannel(taskID string) string {
	return taskEventPrefix + taskID
}
