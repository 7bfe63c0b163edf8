package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func get(router *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAPIKeyMiddleware(t *testing.T) {
	t.Run("empty key leaves the API open", func(t *testing.T) {
		router := newTestRouter(APIKeyMiddleware(""))
		assert.Equal(t, http.StatusOK, get(router, nil).Code)
	})

	t.Run("matching key passes", func(t *testing.T) {
		router := newTestRouter(APIKeyMiddleware("secret"))
		w := get(router, map[string]string{"X-API-Key": "secret"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing key rejected", func(t *testing.T) {
		router := newTestRouter(APIKeyMiddleware("secret"))
		assert.Equal(t, http.StatusUnauthorized, get(router, nil).Code)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		router := newTestRouter(APIKeyMiddleware("secret"))
		w := get(router, map[string]string{"X-API-Key": "other"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	// Burst equals the per-minute allowance, so the n+1th immediate request
	// must be rejected.
	perMinute := 5
	rl := NewRateLimiter(perMinute)
	defer rl.Stop()
	router := newTestRouter(rl.Middleware())

	for i := 0; i < perMinute; i++ {
		assert.Equal(t, http.StatusOK, get(router, nil).Code)
	}

	w := get(router, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(10)
	defer rl.Stop()
	router := newTestRouter(rl.Middleware())

	assert.Equal(t, http.StatusOK, get(router, nil).Code)

	rl.mu.Lock()
	assert.Len(t, rl.clients, 1)
	rl.mu.Unlock()

	// A cutoff in the future marks the bucket idle.
	rl.evictIdle(time.Now().Add(time.Minute))

	rl.mu.Lock()
	assert.Empty(t, rl.clients)
	rl.mu.Unlock()
}

func TestRequestIDMiddleware(t *testing.T) {
	router := newTestRouter(RequestIDMiddleware())

	w := get(router, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = get(router, map[string]string{"X-Request-Id": "fixed-id"})
	assert.Equal(t, "fixed-id", w.Header().Get("X-Request-Id"))
}

func TestRequestIDMiddleware_RequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())

	// Services derive their loggers from the request context, so the ID has
	// to live there too, not just in the gin context.
	var fromRequestCtx string
	router.GET("/ping", func(c *gin.Context) {
		fromRequestCtx, _ = c.Request.Context().Value("request_id").(string)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := get(router, map[string]string{"X-Request-Id": "rid-12345"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rid-12345", fromRequestCtx)
}
