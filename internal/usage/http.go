package usage

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves quota reports.
type Handler struct {
	recorder *Recorder
	quota    int64
}

func NewHandler(recorder *Recorder, quota int64) *Handler {
	return &Handler{recorder: recorder, quota: quota}
}

// Register mounts the usage route on a router group.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/projects/:id/usage", h.GetProjectUsage)
}

// GetProjectUsage returns the quota report for a project.
func (h *Handler) GetProjectUsage(c *gin.Context) {
	projectID := c.Param("id")

	report, err := h.recorder.Report(c.Request.Context(), projectID, h.quota)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read usage"})
		return
	}

	c.JSON(http.StatusOK, report)
}
