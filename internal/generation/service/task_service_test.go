package service

import (
	"context"
	"testing"
	"time"

	"github.com/Dav-123/Easy-biz-ai-service/internal/generation/domain"
	"github.com/Dav-123/Easy-biz-ai-service/internal/generation/repository"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskService(t *testing.T) *TaskService {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewTaskService(repository.NewTaskRepository(client, time.Hour))
}

func TestTaskService_Lifecycle(t *testing.T) {
	svc := newTaskService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "proj-1", domain.TypeBrandKit)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Nil(t, task.CompletedAt)

	require.NoError(t, svc.MarkProcessing(ctx, task.TaskID))
	got, err := svc.GetTask(ctx, task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, got.Status)
	assert.Nil(t, got.CompletedAt)

	require.NoError(t, svc.Complete(ctx, task.TaskID, map[string]interface{}{"content": "done"}))
	got, err = svc.GetTask(ctx, task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, "done", got.Result["content"])
	require.NotNil(t, got.CompletedAt)
}

func TestTaskService_Fail(t *testing.T) {
	svc := newTaskService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "proj-1", domain.TypeBusinessPlan)
	require.NoError(t, err)

	require.NoError(t, svc.Fail(ctx, task.TaskID, "provider unreachable"))
	got, err := svc.GetTask(ctx, task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.Equal(t, "provider unreachable", got.Error)
	require.NotNil(t, got.CompletedAt)
}

func TestTaskService_RejectsInvalidType(t *testing.T) {
	svc := newTaskService(t)

	_, err := svc.CreateTask(context.Background(), "proj-1", "mystery_type")
	assert.ErrorIs(t, err, domain.ErrInvalidGenerationType)
}

func TestTaskService_TransitionMissingTask(t *testing.T) {
	svc := newTaskService(t)

	err := svc.MarkProcessing(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
