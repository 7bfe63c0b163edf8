package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Dav-123/Easy-biz-ai-service/internal/generation/domain"
	"github.com/Dav-123/Easy-biz-ai-service/internal/generation/service"
	"github.com/gin-gonic/gin"
)

// TaskResponse is the wire shape returned for every task-producing endpoint.
type TaskResponse struct {
	TaskID    string                 `json:"task_id"`
	Status    string                 `json:"status"`
	Result    map[string]interface{} `json:"result,omitempty"`
	Error     string                 `json:"error,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

func toTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		TaskID:    task.TaskID,
		Status:    task.Status,
		Result:    task.Result,
		Error:     task.Error,
		CreatedAt: task.CreatedAt,
	}
}

// Handler exposes the generation endpoints.
type Handler struct {
	content *service.ContentService
	tasks   *service.TaskService
}

func NewHandler(content *service.ContentService, tasks *service.TaskService) *Handler {
	return &Handler{content: content, tasks: tasks}
}

// Register mounts the generation routes on a router group.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/generate/brand-kit", h.GenerateBrandKit)
	r.POST("/generate/social-media", h.GenerateSocialMedia)
	r.POST("/generate/website", h.GenerateWebsiteContent)
	r.POST("/generate/business-plan", h.GenerateBusinessPlan)
	r.POST("/generate/image", h.GenerateImage)
	r.GET("/task/:id", h.GetTask)
	r.DELETE("/task/:id", h.DeleteTask)
	r.GET("/task/:id/stream", h.StreamTask)
	r.GET("/projects/:id/tasks", h.ListProjectTasks)
}

// GenerateBrandKit enqueues a brand kit generation task.
func (h *Handler) GenerateBrandKit(c *gin.Context) {
	h.enqueue(c, domain.TypeBrandKit, h.content.GenerateBrandKit)
}

// GenerateSocialMedia enqueues a social media content task.
func (h *Handler) GenerateSocialMedia(c *gin.Context) {
	h.enqueue(c, domain.TypeSocialMedia, h.content.GenerateSocialMedia)
}

// GenerateWebsiteContent enqueues a website content task.
func (h *Handler) GenerateWebsiteContent(c *gin.Context) {
	h.enqueue(c, domain.TypeWebsiteContent, h.content.GenerateWebsiteContent)
}

// GenerateBusinessPlan enqueues a business plan task.
func (h *Handler) GenerateBusinessPlan(c *gin.Context) {
	h.enqueue(c, domain.TypeBusinessPlan, h.content.GenerateBusinessPlan)
}

// GenerateImage enqueues a standalone image generation task.
func (h *Handler) GenerateImage(c *gin.Context) {
	h.enqueue(c, domain.TypeImageGeneration, h.content.GenerateImage)
}

type enqueueFunc func(ctx context.Context, req *domain.GenerationRequest) (*domain.Task, error)

func (h *Handler) enqueue(c *gin.Context, genType domain.GenerationType, start enqueueFunc) {
	var req domain.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// The body may omit or contradict the path; the path wins.
	req.GenerationType = genType

	task, err := start(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrMissingBusinessName) ||
			errors.Is(err, domain.ErrMissingDescription) ||
			errors.Is(err, domain.ErrInvalidGenerationType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	c.JSON(http.StatusAccepted, toTaskResponse(task))
}

// GetTask retrieves a generation task by ID.
func (h *Handler) GetTask(c *gin.Context) {
	taskID := c.Param("id")

	task, err := h.tasks.GetTask(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// DeleteTask deletes a generation task.
func (h *Handler) DeleteTask(c *gin.Context) {
	taskID := c.Param("id")

	if err := h.tasks.DeleteTask(c.Request.Context(), taskID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": taskID})
}

// ListProjectTasks lists the known task IDs for a project.
func (h *Handler) ListProjectTasks(c *gin.Context) {
	projectID := c.Param("id")

	ids, err := h.tasks.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}
	if ids == nil {
		ids = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"project_id": projectID, "task_ids": ids})
}
