package services

import (
	"context"
	"sync"
	"time"

	"github.com/campusdesk/admissions/src/logging"
	"github.com/campusdesk/admissions/src/repositories"
	"github.com/rs/zerolog"
)

// DefaultCleanupInterval is how often expired session revocations are purged
const DefaultCleanupInterval = time.Hour

// CleanupService periodically purges expired session revocations
type CleanupService struct {
	repo     repositories.SessionRevocationRepository
	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once
	logger   zerolog.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(repo repositories.SessionRevocationRepository, interval time.Duration) *CleanupService {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &CleanupService{
		repo:     repo,
		interval: interval,
		done:     make(chan struct{}),
		logger:   logging.NewLogger("cleanup"),
	}
}

// Start runs the purge loop in the background until ctx ends or Stop is called
func (cs *CleanupService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(cs.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				cs.logger.Info().Msg("Cleanup service stopped")
				return
			case <-cs.done:
				cs.logger.Info().Msg("Cleanup service stopped")
				return
			case <-ticker.C:
				cs.RunOnce(ctx)
			}
		}
	}()

	cs.logger.Info().Dur("interval", cs.interval).Msg("Cleanup service started")
}

// Stop stops the cleanup service
func (cs *CleanupService) Stop() {
	cs.stopOnce.Do(func() { close(cs.done) })
}

// RunOnce performs a single purge and returns the number of rows removed
func (cs *CleanupService) RunOnce(ctx context.Context) int64 {
	deleted, err := cs.repo.DeleteExpired(ctx)
	if err != nil {
		cs.logger.Error().Err(err).Msg("Cleanup failed")
		return 0
	}

	if deleted > 0 {
		cs.logger.Info().Int64("deleted", deleted).Msg("Expired session revocations purged")
	}
	return deleted
}
