package http

import (
	"net/http"

	"github.com/Dav-123/Easy-biz-ai-service/internal/ai"
	"github.com/Dav-123/Easy-biz-ai-service/internal/generation/service"
	"github.com/gin-gonic/gin"
)

// MetricsHandler exposes the in-process counters.
func MetricsHandler(c *gin.Context) {
	aiMetrics := ai.GetMetrics()
	taskMetrics := service.GetMetrics()

	c.JSON(http.StatusOK, gin.H{
		"tasks": gin.H{
			"started":   taskMetrics.Started(),
			"completed": taskMetrics.Completed(),
			"failed":    taskMetrics.Failed(),
		},
		"providers": gin.H{
			"text_calls":          aiMetrics.TextCalls(),
			"text_error_rate_pct": aiMetrics.TextErrorRate(),
			"avg_text_latency_ms": aiMetrics.AverageTextLatency(),
			"image_calls":         aiMetrics.ImageCalls(),
			"image_errors":        aiMetrics.ImageErrors(),
		},
	})
}
