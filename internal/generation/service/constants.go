package service

import "time"

const (
	// PipelineTimeout bounds a whole background generation pipeline.
	PipelineTimeout = 10 * time.Minute

	// platformConcurrency bounds concurrent per-platform generations in the
	// social media pipeline.
	platformConcurrency = 2
)
