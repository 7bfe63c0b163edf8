package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Dav-123/Easy-biz-ai-service/internal/generation/domain"
	"github.com/gin-gonic/gin"
)

// StreamTask streams task updates over Server-Sent Events until the task
// reaches a terminal state or the client disconnects. Updates arrive through
// the task's pub/sub channel; a slower poll backstops missed publishes.
func (h *Handler) StreamTask(c *gin.Context) {
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

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	// Send initial task state
	initialData, _ := json.Marshal(toTaskResponse(task))
	fmt.Fprintf(c.Writer, "event: initial\ndata: %s\n\n", string(initialData))
	flusher.Flush()

	if domain.Terminal(task.Status) {
		return
	}

	ctx := c.Request.Context()

	sub := h.tasks.Subscribe(ctx, taskID)
	defer sub.Close()
	events := sub.Channel()

	keepAlive := time.NewTicker(15 * time.Second)
	defer keepAlive.Stop()

	// Backstop poll in case a publish is missed
	poll := time.NewTicker(5 * time.Second)
	defer poll.Stop()

	lastUpdatedAt := task.UpdatedAt

	send := func(updated *domain.Task) bool {
		if !updated.UpdatedAt.After(lastUpdatedAt) {
			return !domain.Terminal(updated.Status)
		}
		lastUpdatedAt = updated.UpdatedAt

		eventData, _ := json.Marshal(toTaskResponse(updated))
		fmt.Fprintf(c.Writer, "event: update\ndata: %s\n\n", string(eventData))
		flusher.Flush()
		return !domain.Terminal(updated.Status)
	}

	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return

		case <-keepAlive.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case msg, ok := <-events:
			if !ok {
				// Subscription dropped; the poll keeps the stream alive.
				events = nil
				continue
			}
			var updated domain.Task
			if err := json.Unmarshal([]byte(msg.Payload), &updated); err != nil {
				continue
			}
			if !send(&updated) {
				return
			}

		case <-poll.C:
			updated, err := h.tasks.GetTask(ctx, taskID)
			if err != nil {
				if errors.Is(err, domain.ErrTaskNotFound) {
					// Task expired or was deleted mid-stream.
					eventData, _ := json.Marshal(gin.H{"event": "deleted", "task_id": taskID})
					fmt.Fprintf(c.Writer, "event: deleted\ndata: %s\n\n", string(eventData))
					flusher.Flush()
					return
				}
				continue
			}
			if !send(updated) {
				return
			}
		}
	}
}
