package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

type SessionEvictor interface {
	EvictIdle(ttl time.Duration) int
}

type sessionSweeper struct {
	evictor  SessionEvictor
	ttl      time.Duration
	schedule string
	cron     *cron.Cron
}

// NewSessionSweeper drops sessions idle for longer than ttl, checking on the
// given cron schedule.
func NewSessionSweeper(evictor SessionEvictor, ttl time.Duration, schedule string) (*sessionSweeper, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}

	return &sessionSweeper{
		evictor:  evictor,
		ttl:      ttl,
		schedule: schedule,
		cron:     cron.New(cron.WithLocation(time.UTC)),
	}, nil
}

func (s *sessionSweeper) Name() string { return "session_sweeper" }

func (s *sessionSweeper) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", s.Name(), "schedule", s.schedule, "ttl", s.ttl)
	defer slog.Info("Worker stopped", "name", s.Name())

	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("scheduling sweep %q: %w", s.schedule, err)
	}

	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()

	return nil
}

func (s *sessionSweeper) sweep() {
	if n := s.evictor.EvictIdle(s.ttl); n > 0 {
		slog.Info("Evicted idle sessions", "count", n)
	}
}
