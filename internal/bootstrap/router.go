package bootstrap

import (
	"net/http"

	httpapi "github.com/Dav-123/Easy-biz-ai-service/internal/api/http"
	"github.com/Dav-123/Easy-biz-ai-service/internal/assets"
	assetrepo "github.com/Dav-123/Easy-biz-ai-service/internal/assets/repository"
	"github.com/Dav-123/Easy-biz-ai-service/internal/files"
	genhttp "github.com/Dav-123/Easy-biz-ai-service/internal/generation/http"
	genservice "github.com/Dav-123/Easy-biz-ai-service/internal/generation/service"
	"github.com/Dav-123/Easy-biz-ai-service/internal/middleware"
	"github.com/Dav-123/Easy-biz-ai-service/internal/usage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	ServiceName        string
	Version            string
	APIKey             string
	RateLimitPerMinute int
	MonthlyQuota       int

	Redis   *redis.Client
	DB      *pgxpool.Pool // nil disables the asset routes
	Probe   httpapi.ServiceProbe
	Content *genservice.ContentService
	Tasks   *genservice.TaskService
	Usage   *usage.Recorder
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default()) // allow-all, like the original service

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": dep.ServiceName, "status": "running"})
	})

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis, dep.Probe)

	// Health stays reachable without a key so probes keep working.
	open := r.Group("/api/v1")
	healthHandler.RegisterRoutes(open)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())
	api.Use(middleware.APIKeyMiddleware(dep.APIKey))
	api.Use(middleware.NewRateLimiter(dep.RateLimitPerMinute).Middleware())

	api.GET("/metrics", httpapi.MetricsHandler)

	genHandler := genhttp.NewHandler(dep.Content, dep.Tasks)
	genHandler.Register(api)

	files.RegisterRoutes(api)

	usage.NewHandler(dep.Usage, int64(dep.MonthlyQuota)).Register(api)

	if dep.DB != nil {
		assets.NewHandler(assetrepo.New(dep.DB)).Register(api)
	}

	return r
}
