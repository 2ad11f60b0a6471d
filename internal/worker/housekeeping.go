package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper is a store that can drop its expired entries.
type Sweeper interface {
	Sweep() int
}

// VisitorCleaner forgets idle rate limiter entries.
type VisitorCleaner interface {
	Cleanup(maxIdle time.Duration)
}

// Housekeeping runs periodic cleanup jobs on a cron schedule.
type Housekeeping struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func NewHousekeeping(log zerolog.Logger) *Housekeeping {
	return &Housekeeping{
		cron: cron.New(),
		log:  log.With().Str("component", "housekeeping").Logger(),
	}
}

// SweepSessions schedules removal of expired sessions from s.
func (h *Housekeeping) SweepSessions(schedule string, s Sweeper) error {
	_, err := h.cron.AddFunc(schedule, func() {
		if n := s.Sweep(); n > 0 {
			h.log.Debug().Int("removed", n).Msg("expired sessions swept")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule session sweep %q: %w", schedule, err)
	}
	return nil
}

// CleanVisitors schedules removal of rate limiter entries idle for longer than maxIdle.
func (h *Housekeeping) CleanVisitors(schedule string, v VisitorCleaner, maxIdle time.Duration) error {
	_, err := h.cron.AddFunc(schedule, func() { v.Cleanup(maxIdle) })
	if err != nil {
		return fmt.Errorf("schedule visitor cleanup %q: %w", schedule, err)
	}
	return nil
}

// Start runs the scheduled jobs until ctx is cancelled, then waits for running jobs.
func (h *Housekeeping) Start(ctx context.Context) {
	h.log.Info().Int("jobs", len(h.cron.Entries())).Msg("Housekeeping started")
	h.cron.Start()

	<-ctx.Done()
	<-h.cron.Stop().Done()
	h.log.Info().Msg("Housekeeping stopped")
}
