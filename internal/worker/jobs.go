package worker

import (
	"context"
	"time"

	"flashdeck/internal/logger"
	"flashdeck/internal/repository"
)

// PurgeAuthSessionsJob deletes expired login sessions.
type PurgeAuthSessionsJob struct {
	Sessions repository.AuthSessionRepository
}

func (j *PurgeAuthSessionsJob) Name() string { return "purge-auth-sessions" }

func (j *PurgeAuthSessionsJob) Run(ctx context.Context) error {
	n, err := j.Sessions.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if n > 0 {
		logger.FromContext(ctx).Info("purged %d expired login sessions", n)
	}
	return nil
}

// CloseStaleStudySessionsJob completes study sessions abandoned mid-run,
// so they stop counting as in progress and show up in analytics.
type CloseStaleStudySessionsJob struct {
	Study   repository.StudyRepository
	MaxIdle time.Duration
}

func (j *CloseStaleStudySessionsJob) Name() string { return "close-stale-study-sessions" }

func (j *CloseStaleStudySessionsJob) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-j.MaxIdle)
	_, err := j.Study.CloseStale(ctx, cutoff)
	return err
}
