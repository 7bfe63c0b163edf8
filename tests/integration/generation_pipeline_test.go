package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dav-123/Easy-biz-ai-service/internal/bootstrap"
	"github.com/Dav-123/Easy-biz-ai-service/internal/generation/domain"
	genhttp "github.com/Dav-123/Easy-biz-ai-service/internal/generation/http"
	genrepo "github.com/Dav-123/Easy-biz-ai-service/internal/generation/repository"
	genservice "github.com/Dav-123/Easy-biz-ai-service/internal/generation/service"
	"github.com/Dav-123/Easy-biz-ai-service/internal/usage"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedGenerator struct{}

func (cannedGenerator) GenerateText(ctx context.Context, prompt string, bizCtx map[string]interface{}) (map[string]interface{}, error) {
	return map[string]interface{}{"content": "canned", "type": "text_response"}, nil
}

func (cannedGenerator) GenerateImage(ctx context.Context, description, style string) (map[string]interface{}, error) {
	return map[string]interface{}{"image_url": "https://img.example/x.png"}, nil
}

func (cannedGenerator) CanGenerateImages() bool { return false }

func setupAPI(t *testing.T, apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	tasks := genservice.NewTaskService(genrepo.NewTaskRepository(client, time.Hour))
	recorder := usage.NewRecorder(client)
	content := genservice.NewContentService(tasks, cannedGenerator{}).WithUsage(recorder)

	return bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:        "EasyBiz AI Service",
		Version:            "test",
		APIKey:             apiKey,
		RateLimitPerMinute: 1000,
		MonthlyQuota:       500,
		Redis:              client,
		Content:            content,
		Tasks:              tasks,
		Usage:              recorder,
	})
}

func postJSON(router *gin.Engine, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getPath(router *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerationFlow(t *testing.T) {
	router := setupAPI(t, "")

	w := postJSON(router, "/api/v1/generate/brand-kit",
		`{"project_id": "proj-1", "prompts": {"business_name": "Sunrise Bakery", "industry": "food"}}`, nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	var created genhttp.TaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.TaskID)
	assert.Equal(t, domain.StatusPending, created.Status)

	// Poll until the background pipeline finishes.
	var final genhttp.TaskResponse
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		w = getPath(router, "/api/v1/task/"+created.TaskID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &final))
		if final.Status == domain.StatusCompleted || final.Status == domain.StatusFailed {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	require.Equal(t, domain.StatusCompleted, final.Status)
	assert.Contains(t, final.Result, "brand_identity")
	assert.Contains(t, final.Result, "social_media")

	// The task shows up under its project.
	w = getPath(router, "/api/v1/projects/proj-1/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		TaskIDs []string `json:"task_ids"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Contains(t, listing.TaskIDs, created.TaskID)

	// Usage reflects the accepted task and its outcome. The outcome counter
	// is written just after the status flips, so give it a moment.
	require.Eventually(t, func() bool {
		w = getPath(router, "/api/v1/projects/proj-1/usage", nil)
		if w.Code != http.StatusOK {
			return false
		}
		var r usage.Report
		return json.Unmarshal(w.Body.Bytes(), &r) == nil && r.Completed == 1
	}, 2*time.Second, 20*time.Millisecond)

	w = getPath(router, "/api/v1/projects/proj-1/usage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report usage.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, int64(1), report.UsedQuota)
	assert.Equal(t, int64(1), report.Completed)
}

func TestAPIKeyProtection(t *testing.T) {
	router := setupAPI(t, "secret")

	body := `{"project_id": "proj-1", "prompts": {"business_name": "Acme"}}`

	w := postJSON(router, "/api/v1/generate/business-plan", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(router, "/api/v1/generate/business-plan", body, map[string]string{"X-API-Key": "secret"})
	assert.Equal(t, http.StatusAccepted, w.Code)

	// Health stays open for probes.
	w = getPath(router, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRootBanner(t *testing.T) {
	router := setupAPI(t, "")

	w := getPath(router, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var banner map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &banner))
	assert.Equal(t, "running", banner["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupAPI(t, "")

	w := getPath(router, "/api/v1/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var metrics map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &metrics))
	assert.Contains(t, metrics, "tasks")
	assert.Contains(t, metrics, "providers")
}
