// Package usage tracks per-project generation counters in Redis and reports
// them against a monthly quota.
package usage

import (
	"context"
	"fmt"
	"strconv"

	gendomain "github.com/Dav-123/Easy-biz-ai-service/internal/generation/domain"
	"github.com/redis/go-redis/v9"
)

const usageKeyPrefix = "ez:usage:" // Hash of counters per project: ez:usage:{project_id}

// Recorder accumulates usage counters per project.
type Recorder struct {
	client *redis.Client
}

func NewRecorder(client *redis.Client) *Recorder {
	return &Recorder{client: client}
}

// RecordTask counts an accepted generation task.
func (r *Recorder) RecordTask(ctx context.Context, projectID string, kind gendomain.GenerationType) error {
	key := r.usageKey(projectID)
	pipe := r.client.Pipeline()
	pipe.HIncrBy(ctx, key, "total", 1)
	pipe.HIncrBy(ctx, key, string(kind), 1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record task usage: %w", err)
	}
	return nil
}

// RecordOutcome counts a terminal task status.
func (r *Recorder) RecordOutcome(ctx context.Context, projectID string, status string) error {
	if err := r.client.HIncrBy(ctx, r.usageKey(projectID), status, 1).Err(); err != nil {
		return fmt.Errorf("record outcome usage: %w", err)
	}
	return nil
}

// Report describes quota consumption for a project.
type Report struct {
	ProjectID       string           `json:"project_id"`
	TotalQuota      int64            `json:"total_quota"`
	UsedQuota       int64            `json:"used_quota"`
	RemainingQuota  int64            `json:"remaining_quota"`
	PercentageUsed  float64          `json:"percentage_used"`
	WillExceedQuota bool             `json:"will_exceed_quota"`
	ByType          map[string]int64 `json:"by_type"`
	Completed       int64            `json:"completed"`
	Failed          int64            `json:"failed"`
}

// Report builds the quota report for a project against the given quota.
func (r *Recorder) Report(ctx context.Context, projectID string, quota int64) (*Report, error) {
	fields, err := r.client.HGetAll(ctx, r.usageKey(projectID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read usage: %w", err)
	}

	counts := make(map[string]int64, len(fields))
	for k, v := range fields {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		counts[k] = n
	}

	used := counts["total"]
	remaining := quota - used
	report := &Report{
		ProjectID:       projectID,
		TotalQuota:      quota,
		UsedQuota:       used,
		RemainingQuota:  max64(0, remaining),
		WillExceedQuota: remaining < 0,
		Completed:       counts[gendomain.StatusCompleted],
		Failed:          counts[gendomain.StatusFailed],
		ByType:          map[string]int64{},
	}
	if quota > 0 {
		report.PercentageUsed = round2(float64(used) / float64(quota) * 100)
	}

	for _, kind := range []gendomain.GenerationType{
		gendomain.TypeBrandKit,
		gendomain.TypeSocialMedia,
		gendomain.TypeWebsiteContent,
		gendomain.TypeBusinessPlan,
		gendomain.TypeImageGeneration,
	} {
		if n, ok := counts[string(kind)]; ok {
			report.ByType[string(kind)] = n
		}
	}

	return report, nil
}

func (r *Recorder) usageKey(projectID string) string {
	return usageKeyPrefix + projectID
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
