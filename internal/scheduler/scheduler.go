package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// SessionExpirer drops sessions idle for longer than ttl and reports how
// many were dropped.
type SessionExpirer interface {
	ExpireSessions(ttl time.Duration) int
}

type Scheduler struct {
	s        gocron.Scheduler
	sessions SessionExpirer
	ttl      time.Duration
	interval time.Duration
}

func NewScheduler(sessions SessionExpirer, ttl, interval time.Duration, opts ...gocron.SchedulerOption) (*Scheduler, error) {
	if ttl <= 0 || interval <= 0 {
		return nil, fmt.Errorf("session ttl and sweep interval must be positive")
	}

	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:        s,
		sessions: sessions,
		ttl:      ttl,
		interval: interval,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.sweepSessions),
		gocron.WithName("session-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create session sweep job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) sweepSessions() {
	removed := s.sessions.ExpireSessions(s.ttl)
	if removed > 0 {
		slog.Info("Expired idle sessions", "count", removed, "ttl", s.ttl)
	}
}
