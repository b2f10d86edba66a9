package services

import (
	"context"
	"fmt"
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/logger"
	"github.com/chachabrian/rentmyride-backend/internal/repository"
	"github.com/robfig/cron/v3"
)

// Archiver moves stale messages into messages_archive
type Archiver struct {
	messages  repository.MessageRepository
	retention time.Duration
	log       *logger.Logger
	now       func() time.Time
}

func NewArchiver(messages repository.MessageRepository, retention time.Duration, log *logger.Logger) *Archiver {
	return &Archiver{
		messages:  messages,
		retention: retention,
		log:       log.With("component", "archiver"),
		now:       time.Now,
	}
}

// Run archives every message last updated at or before now minus retention
func (a *Archiver) Run(ctx context.Context) (int64, error) {
	if a.retention <= 0 {
		return 0, fmt.Errorf("archive retention must be positive, got %s", a.retention)
	}
	cutoff := a.now().Add(-a.retention)

	started := time.Now()
	moved, err := a.messages.Archive(ctx, cutoff)
	if err != nil {
		archiveRuns.WithLabelValues("error").Inc()
		a.log.Error("message archive failed", "cutoff", cutoff, "error", err)
		return 0, err
	}

	archiveRuns.WithLabelValues("ok").Inc()
	archivedMessages.Add(float64(moved))
	a.log.Info("message archive finished", "moved", moved, "cutoff", cutoff, "took", time.Since(started))
	return moved, nil
}

// Scheduler runs the archiver on a cron schedule
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// NewScheduler registers the archiver under spec in the given time zone
func NewScheduler(archiver *Archiver, spec, tz string, log *logger.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", tz, err)
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(spec, func() {
		// errors are logged by Run; the next tick tries again
		_, _ = archiver.Run(context.Background())
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	return &Scheduler{cron: c, log: log.With("component", "scheduler")}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	for _, entry := range s.cron.Entries() {
		s.log.Info("archive job scheduled", "next_run", entry.Next)
	}
}

// Stop waits for a running job to finish or ctx to end
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("archive job still running at shutdown")
	}
}
