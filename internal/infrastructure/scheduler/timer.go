package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TimerScheduler runs one-shot jobs at a wall-clock instant. Jobs armed with
// a context that is later cancelled never fire.
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[*time.Timer]struct{}
	now    func() time.Time
	logger *slog.Logger
}

func NewTimerScheduler(logger *slog.Logger) *TimerScheduler {
	return &TimerScheduler{
		timers: make(map[*time.Timer]struct{}),
		now:    time.Now,
		logger: logger,
	}
}

func (s *TimerScheduler) ScheduleAt(ctx context.Context, at time.Time, job func(context.Context)) {
	delay := at.Sub(s.now())
	if delay < 0 {
		delay = 0
	}
	s.logger.Info("job scheduled", "at", at, "in", delay.Round(time.Second))

	fired := make(chan struct{})

	var timer *time.Timer
	s.mu.Lock()
	timer = time.AfterFunc(delay, func() {
		close(fired)
		s.mu.Lock()
		delete(s.timers, timer)
		s.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		job(ctx)
	})
	s.timers[timer] = struct{}{}
	s.mu.Unlock()

	go func() {
		select {
		case <-fired:
		case <-ctx.Done():
			if timer.Stop() {
				s.mu.Lock()
				delete(s.timers, timer)
				s.mu.Unlock()
			}
		}
	}()
}

// Pending reports how many jobs are armed and not yet fired.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
