package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"project-collab-api/internal/metrics"
	"project-collab-api/internal/repository"
)

// CleanupJob removes pending invitations that were never answered within the
// retention window. Accepted and rejected invitations are kept so a later
// re-invite can recycle the row.
type CleanupJob struct {
	invitationRepo repository.InvitationRepository
	retention      time.Duration
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// NewCleanupJob creates a new CleanupJob instance
func NewCleanupJob(
	invitationRepo repository.InvitationRepository,
	retention time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CleanupJob {
	return &CleanupJob{
		invitationRepo: invitationRepo,
		retention:      retention,
		metrics:        m,
		logger:         logger,
	}
}

// Run executes the cleanup job
func (j *CleanupJob) Run() {
	ctx := context.Background()

	cutoff := time.Now().UTC().Add(-j.retention)
	j.logger.Info("Starting stale invitation cleanup",
		zap.Time("cutoff", cutoff),
	)

	removed, err := j.invitationRepo.DeleteStalePending(ctx, cutoff)
	if err != nil {
		j.logger.Error("Failed to delete stale invitations", zap.Error(err))
		return
	}

	if removed > 0 && j.metrics != nil {
		j.metrics.StaleInvitationsRemovedTotal.Add(float64(removed))
	}

	j.logger.Info("Stale invitation cleanup completed",
		zap.Int64("removed", removed),
	)
}
