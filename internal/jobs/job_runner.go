package jobs

import (
	"context"
	"log/slog"
	"time"

	"teamspace-backend/internal/config"
	"teamspace-backend/internal/logger"
	"teamspace-backend/internal/service"
)

// jobTimeout bounds a single job run; sweeps are a handful of store
// round-trips and must never hang the scheduler.
const jobTimeout = 2 * time.Minute

// JobRunner executes the periodic maintenance jobs.
type JobRunner struct {
	invitations service.InvitationService
	cfg         *config.Config
	log         *slog.Logger
}

func NewJobRunner(invitations service.InvitationService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		invitations: invitations,
		cfg:         cfg,
		log:         logger.WithComponent("jobs"),
	}
}

// Config exposes the loaded configuration to the scheduler.
func (j *JobRunner) Config() *config.Config {
	return j.cfg
}

// ExpireInvitations bulk-transitions stale pending invitations to expired.
// Safe to re-run at any time; a sweep with nothing to do reports zero rows.
func (j *JobRunner) ExpireInvitations() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	started := time.Now()
	count, err := j.invitations.ExpireStale(ctx)
	if err != nil {
		j.log.Error("invitation expiry sweep failed", "error", err)
		return
	}
	j.log.Info("invitation expiry sweep completed", "expired", count, "duration", time.Since(started))
}
