package assets

import (
	"errors"
	"net/http"

	"github.com/Dav-123/Easy-biz-ai-service/internal/assets/domain"
	"github.com/Dav-123/Easy-biz-ai-service/internal/assets/repository"
	"github.com/gin-gonic/gin"
)

// Handler serves persisted generation assets.
type Handler struct {
	repo *repository.AssetRepository
}

func NewHandler(repo *repository.AssetRepository) *Handler {
	return &Handler{repo: repo}
}

// Register mounts the asset routes on a router group.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/projects/:id/assets", h.ListProjectAssets)
	r.GET("/assets/:task_id", h.GetAsset)
}

// ListProjectAssets lists a project's persisted results, newest first.
func (h *Handler) ListProjectAssets(c *gin.Context) {
	projectID := c.Param("id")

	list, err := h.repo.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list assets"})
		return
	}
	if list == nil {
		list = []domain.Asset{}
	}

	c.JSON(http.StatusOK, gin.H{"project_id": projectID, "assets": list})
}

// GetAsset returns the asset persisted for one task.
func (h *Handler) GetAsset(c *gin.Context) {
	taskID := c.Param("task_id")

	asset, err := h.repo.GetByTaskID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, domain.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get asset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}
