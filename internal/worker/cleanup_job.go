package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/EcoQuest_Go/internal/logger"
	"github.com/osse101/EcoQuest_Go/internal/metrics"
)

// MissionCleaner prunes locally cached mission sets
type MissionCleaner interface {
	CleanOldLocalData(ctx context.Context) (int, error)
}

// CachePurger drops expired recycling cache records
type CachePurger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// CleanupJob garbage-collects the local cache
type CleanupJob struct {
	missions MissionCleaner
	cache    CachePurger
}

// NewCleanupJob creates a cleanup job. Either dependency may be nil.
func NewCleanupJob(missions MissionCleaner, cache CachePurger) *CleanupJob {
	return &CleanupJob{missions: missions, cache: cache}
}

// Process implements Job. Both steps run even if the first fails.
func (j *CleanupJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgCleanupStarting)

	var errs []error
	missions, purged := 0, 0

	if j.missions != nil {
		n, err := j.missions.CleanOldLocalData(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ErrMsgMissionCleanupFailed, err))
		}
		missions = n
	}
	if j.cache != nil {
		n, err := j.cache.PurgeExpired(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ErrMsgCachePurgeFailed, err))
		}
		purged = n
	}

	metrics.LocalEntriesPurged.Add(float64(missions + purged))
	log.Info(LogMsgCleanupCompleted, "missions_removed", missions, "cache_removed", purged)
	return errors.Join(errs...)
}
