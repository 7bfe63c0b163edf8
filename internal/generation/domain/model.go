package domain

import "time"

// GenerationType identifies which content pipeline a task runs.
type GenerationType string

const (
	TypeBrandKit        GenerationType = "brand_kit"
	TypeSocialMedia     GenerationType = "social_media"
	TypeWebsiteContent  GenerationType = "website_content"
	TypeBusinessPlan    GenerationType = "business_plan"
	TypeImageGeneration GenerationType = "image_generation"
)

// TaskStatus constants
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Task represents one generation task and its lifecycle state.
type Task struct {
	TaskID         string                 `json:"task_id"`
	ProjectID      string                 `json:"project_id"`
	GenerationType GenerationType         `json:"generation_type"`
	Status         string                 `json:"status"`
	Result         map[string]interface{} `json:"result,omitempty"`
	Error          string                 `json:"error,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`
}

// GenerationRequest is the request body accepted by all generate endpoints.
type GenerationRequest struct {
	ProjectID      string                 `json:"project_id" binding:"required"`
	GenerationType GenerationType         `json:"generation_type"`
	Prompts        map[string]interface{} `json:"prompts" binding:"required"`
	Options        map[string]interface{} `json:"options,omitempty"`
}

// PromptString returns a string-valued prompt field, or "" when absent.
func (r *GenerationRequest) PromptString(key string) string {
	if r.Prompts == nil {
		return ""
	}
	if v, ok := r.Prompts[key].(string); ok {
		return v
	}
	return ""
}

// IsValidType checks whether a generation type is one of the known pipelines.
func IsValidType(t GenerationType) bool {
	switch t {
	case TypeBrandKit, TypeSocialMedia, TypeWebsiteContent, TypeBusinessPlan, TypeImageGeneration:
		return true
	}
	return false
}

// Terminal reports whether a task in this status will never change again.
func Terminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}
