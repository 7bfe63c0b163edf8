// Package maintenance runs the periodic cleanup jobs: pruning stale task
// indexes from Redis and enforcing the asset retention window in Postgres.
package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/Dav-123/Easy-biz-ai-service/internal/assets/repository"
	genrepo "github.com/Dav-123/Easy-biz-ai-service/internal/generation/repository"
	"github.com/robfig/cron/v3"
)

const jobTimeout = 5 * time.Minute

type Scheduler struct {
	tasks         *genrepo.TaskRepository
	assets        *repository.AssetRepository // nil when persistence is disabled
	retentionDays int
	cron          *cron.Cron
}

func NewScheduler(tasks *genrepo.TaskRepository, assets *repository.AssetRepository, retentionDays int) *Scheduler {
	return &Scheduler{
		tasks:         tasks,
		assets:        assets,
		retentionDays: retentionDays,
	}
}

// Start initializes cron tasks
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	// Hourly, on the hour
	_, err := c.AddFunc("0 0 * * * *", func() {
		s.RunOnce()
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Maintenance scheduler started (hourly cleanup)")
	c.Start()
	s.cron = c
}

// Stop halts the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// RunOnce executes one maintenance pass. Exported so the worker CLI can
// trigger it directly.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	removed, err := s.tasks.PruneProjectIndexes(ctx)
	if err != nil {
		log.Printf("[warn] operation=prune_indexes error=%v", err)
	} else if removed > 0 {
		log.Printf("[info] operation=prune_indexes removed=%d", removed)
	}

	if s.assets != nil && s.retentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
		deleted, err := s.assets.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			log.Printf("[warn] operation=asset_retention error=%v", err)
		} else if deleted > 0 {
			log.Printf("[info] operation=asset_retention deleted=%d", deleted)
		}
	}
}
