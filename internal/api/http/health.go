package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type HealthResponse struct {
	Status            string                 `json:"status"`
	Timestamp         time.Time              `json:"timestamp"`
	Service           string                 `json:"service"`
	Version           string                 `json:"version"`
	DB                string                 `json:"db,omitempty"`
	Redis             string                 `json:"redis,omitempty"`
	AvailableServices map[string]interface{} `json:"available_services,omitempty"`
}

// ServiceProbe reports AI provider availability for the health payload.
type ServiceProbe interface {
	AvailableServices() map[string]interface{}
}

type HealthHandler struct {
	serviceName string
	version     string
	db          *pgxpool.Pool
	redis       *redis.Client
	probe       ServiceProbe
}

func NewHealthHandler(serviceName, version string, db *pgxpool.Pool, rdb *redis.Client, probe ServiceProbe) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		db:          db,
		redis:       rdb,
		probe:       probe,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
	defer cancel()

	dbStatus := "disabled"
	if h.db != nil {
		if err := h.db.Ping(pingCtx); err != nil {
			dbStatus = "down"
		} else {
			dbStatus = "up"
		}
	}

	redisStatus := "up"
	status := "healthy"
	if err := h.redis.Ping(pingCtx).Err(); err != nil {
		redisStatus = "down"
		status = "degraded"
	}

	var services map[string]interface{}
	if h.probe != nil {
		services = h.probe.AvailableServices()
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:            status,
		Timestamp:         time.Now().UTC(),
		Service:           h.serviceName,
		Version:           h.version,
		DB:                dbStatus,
		Redis:             redisStatus,
		AvailableServices: services,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
