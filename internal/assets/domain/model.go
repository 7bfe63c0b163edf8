package domain

import (
	"errors"
	"time"

	gendomain "github.com/Dav-123/Easy-biz-ai-service/internal/generation/domain"
)

// Asset is a persisted generation result.
type Asset struct {
	ID        int64                    `json:"id"`
	ProjectID string                   `json:"project_id"`
	TaskID    string                   `json:"task_id"`
	Kind      gendomain.GenerationType `json:"kind"`
	Payload   map[string]interface{}   `json:"payload"`
	CreatedAt time.Time                `json:"created_at"`
}

var ErrAssetNotFound = errors.New("asset not found")
