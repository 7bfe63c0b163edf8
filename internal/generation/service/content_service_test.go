package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dav-123/Easy-biz-ai-service/internal/generation/domain"
	"github.com/Dav-123/Easy-biz-ai-service/internal/generation/repository"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator records prompts and returns canned responses. failOn makes a
// matching text prompt fail, failImages makes every image call fail.
type fakeGenerator struct {
	mu         sync.Mutex
	textCalls  []string
	imageCalls []string
	images     bool
	failOn     string
	failImages bool
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string, bizCtx map[string]interface{}) (map[string]interface{}, error) {
	f.mu.Lock()
	f.textCalls = append(f.textCalls, prompt)
	f.mu.Unlock()
	if f.failOn != "" && strings.Contains(prompt, f.failOn) {
		return nil, errors.New("provider unavailable")
	}
	return map[string]interface{}{"content": "generated: " + prompt[:min(20, len(prompt))], "type": "text_response"}, nil
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, description, style string) (map[string]interface{}, error) {
	f.mu.Lock()
	f.imageCalls = append(f.imageCalls, description)
	f.mu.Unlock()
	if f.failImages {
		return nil, errors.New("image provider unavailable")
	}
	return map[string]interface{}{"image_url": "https://img.example/gen.png", "style": style}, nil
}

func (f *fakeGenerator) CanGenerateImages() bool { return f.images }

func (f *fakeGenerator) textCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.textCalls)
}

func newTestServices(t *testing.T, gen Generator) (*ContentService, *TaskService) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	tasks := NewTaskService(repository.NewTaskRepository(client, time.Hour))
	return NewContentService(tasks, gen), tasks
}

// waitForTerminal polls until the task leaves pending/processing.
func waitForTerminal(t *testing.T, tasks *TaskService, taskID string) *domain.Task {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		task, err := tasks.GetTask(context.Background(), taskID)
		require.NoError(t, err)
		if domain.Terminal(task.Status) {
			return task
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("task did not reach a terminal state")
	return nil
}

func brandKitRequest() *domain.GenerationRequest {
	return &domain.GenerationRequest{
		ProjectID: "proj-1",
		Prompts: map[string]interface{}{
			"business_name":   "Sunrise Bakery",
			"industry":        "food",
			"description":     "Neighborhood bakery",
			"target_audience": "locals",
		},
	}
}

func TestContentService_GenerateBrandKit(t *testing.T) {
	t.Run("completes with identity and social content", func(t *testing.T) {
		gen := &fakeGenerator{}
		svc, tasks := newTestServices(t, gen)

		task, err := svc.GenerateBrandKit(context.Background(), brandKitRequest())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, task.Status)

		done := waitForTerminal(t, tasks, task.TaskID)
		assert.Equal(t, domain.StatusCompleted, done.Status)
		assert.Contains(t, done.Result, "brand_identity")
		assert.Contains(t, done.Result, "social_media")
		assert.Contains(t, done.Result, "generated_at")
		assert.NotNil(t, done.CompletedAt)
	})

	t.Run("requires business name", func(t *testing.T) {
		svc, _ := newTestServices(t, &fakeGenerator{})
		_, err := svc.GenerateBrandKit(context.Background(), &domain.GenerationRequest{
			ProjectID: "proj-1",
			Prompts:   map[string]interface{}{"industry": "food"},
		})
		assert.ErrorIs(t, err, domain.ErrMissingBusinessName)
	})

	t.Run("logo failure does not fail the kit", func(t *testing.T) {
		gen := &fakeGenerator{images: true, failImages: true}
		svc, tasks := newTestServices(t, gen)

		task, err := svc.GenerateBrandKit(context.Background(), brandKitRequest())
		require.NoError(t, err)

		done := waitForTerminal(t, tasks, task.TaskID)
		assert.Equal(t, domain.StatusCompleted, done.Status)
		assert.Nil(t, done.Result["logo"])
	})

	t.Run("identity failure fails the task", func(t *testing.T) {
		gen := &fakeGenerator{failOn: "brand identity"}
		svc, tasks := newTestServices(t, gen)

		task, err := svc.GenerateBrandKit(context.Background(), brandKitRequest())
		require.NoError(t, err)

		done := waitForTerminal(t, tasks, task.TaskID)
		assert.Equal(t, domain.StatusFailed, done.Status)
		assert.Contains(t, done.Error, "brand identity")
	})
}

func TestContentService_GenerateSocialMedia(t *testing.T) {
	gen := &fakeGenerator{}
	svc, tasks := newTestServices(t, gen)

	task, err := svc.GenerateSocialMedia(context.Background(), brandKitRequest())
	require.NoError(t, err)

	done := waitForTerminal(t, tasks, task.TaskID)
	require.Equal(t, domain.StatusCompleted, done.Status)

	posts, ok := done.Result["posts"].([]interface{})
	require.True(t, ok)
	assert.Len(t, posts, len(socialPlatforms))

	// No image provider configured, so banners stay empty.
	banners, ok := done.Result["banners"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, banners)
}

func TestContentService_GenerateWebsiteContent(t *testing.T) {
	gen := &fakeGenerator{}
	svc, tasks := newTestServices(t, gen)

	task, err := svc.GenerateWebsiteContent(context.Background(), brandKitRequest())
	require.NoError(t, err)

	done := waitForTerminal(t, tasks, task.TaskID)
	require.Equal(t, domain.StatusCompleted, done.Status)

	content, ok := done.Result["website_content"].(map[string]interface{})
	require.True(t, ok)
	for _, section := range websiteSections {
		assert.Contains(t, content, section)
	}
	assert.Contains(t, done.Result, "template_suggestions")
	assert.Equal(t, len(websiteSections), gen.textCallCount())
}

func TestContentService_GenerateBusinessPlan(t *testing.T) {
	gen := &fakeGenerator{}
	svc, tasks := newTestServices(t, gen)

	task, err := svc.GenerateBusinessPlan(context.Background(), brandKitRequest())
	require.NoError(t, err)

	done := waitForTerminal(t, tasks, task.TaskID)
	require.Equal(t, domain.StatusCompleted, done.Status)
	assert.Contains(t, done.Result, "business_plan")
}

func TestContentService_GenerateImage(t *testing.T) {
	t.Run("requires description", func(t *testing.T) {
		svc, _ := newTestServices(t, &fakeGenerator{images: true})
		_, err := svc.GenerateImage(context.Background(), &domain.GenerationRequest{
			ProjectID: "proj-1",
			Prompts:   map[string]interface{}{},
		})
		assert.ErrorIs(t, err, domain.ErrMissingDescription)
	})

	t.Run("completes with image result", func(t *testing.T) {
		gen := &fakeGenerator{images: true}
		svc, tasks := newTestServices(t, gen)

		task, err := svc.GenerateImage(context.Background(), &domain.GenerationRequest{
			ProjectID: "proj-1",
			Prompts:   map[string]interface{}{"description": "storefront banner"},
		})
		require.NoError(t, err)

		done := waitForTerminal(t, tasks, task.TaskID)
		require.Equal(t, domain.StatusCompleted, done.Status)

		image, ok := done.Result["image"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "https://img.example/gen.png", image["image_url"])
	})

	t.Run("image failure fails the task", func(t *testing.T) {
		gen := &fakeGenerator{images: true, failImages: true}
		svc, tasks := newTestServices(t, gen)

		task, err := svc.GenerateImage(context.Background(), &domain.GenerationRequest{
			ProjectID: "proj-1",
			Prompts:   map[string]interface{}{"description": "storefront banner"},
		})
		require.NoError(t, err)

		done := waitForTerminal(t, tasks, task.TaskID)
		assert.Equal(t, domain.StatusFailed, done.Status)
	})
}

// fakeImageStore swaps the provider URL for a stored one.
type fakeImageStore struct{}

func (fakeImageStore) Mirror(ctx context.Context, imageURL, key string) (string, error) {
	return fmt.Sprintf("https://store.example/%s", key), nil
}

func TestContentService_ImageMirroring(t *testing.T) {
	gen := &fakeGenerator{images: true}
	svc, tasks := newTestServices(t, gen)
	svc.WithImageStore(fakeImageStore{})

	task, err := svc.GenerateImage(context.Background(), &domain.GenerationRequest{
		ProjectID: "proj-1",
		Prompts:   map[string]interface{}{"description": "storefront banner"},
	})
	require.NoError(t, err)

	done := waitForTerminal(t, tasks, task.TaskID)
	require.Equal(t, domain.StatusCompleted, done.Status)

	image, ok := done.Result["image"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "https://img.example/gen.png", image["source_url"])
	assert.Equal(t, fmt.Sprintf("https://store.example/%s/%s/image.jpg", task.ProjectID, task.TaskID), image["image_url"])
}
