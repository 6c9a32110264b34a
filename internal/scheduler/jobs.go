package scheduler

import (
	"context"

	"github.com/rs/zerolog"
)

// SessionPurger deletes expired sessions.
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// PurgeSessionsJob removes login sessions past their expiry.
type PurgeSessionsJob struct {
	purger SessionPurger
	log    zerolog.Logger
}

// NewPurgeSessionsJob creates a PurgeSessionsJob.
func NewPurgeSessionsJob(purger SessionPurger, log zerolog.Logger) *PurgeSessionsJob {
	return &PurgeSessionsJob{purger: purger, log: log}
}

// Name implements Job.
func (j *PurgeSessionsJob) Name() string { return "purge_expired_sessions" }

// Run implements Job.
func (j *PurgeSessionsJob) Run(ctx context.Context) error {
	n, err := j.purger.PurgeExpiredSessions(ctx)
	if err != nil {
		return err
	}
	j.log.Debug().Int64("removed", n).Msg("expired sessions purged")
	return nil
}
