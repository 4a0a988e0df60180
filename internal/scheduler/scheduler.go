package scheduler

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/pkg/errors"
)

// Clock is the time source of the scheduler.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Cycle is one unit of scheduled work.
type Cycle func(ctx context.Context) error

// Scheduler runs a cycle at fixed interval boundaries, one at a time.
type Scheduler struct {
	interval time.Duration
	clock    Clock
	logger   *slog.Logger
}

// Option configures Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// New creates Scheduler.
func New(interval time.Duration, opts ...Option) (*Scheduler, error) {
	if interval <= 0 {
		return nil, errors.Errorf("scheduler interval must be positive, got %s", interval)
	}
	s := &Scheduler{
		interval: interval,
		clock:    SystemClock,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run executes cycle immediately and then at start+k*interval. A cycle that
// overruns one or more boundaries makes the scheduler skip to the next future
// boundary, so cycles never overlap. Cycle errors and panics are logged and
// the loop continues. Run returns ctx.Err() once ctx is done.
func (s *Scheduler) Run(ctx context.Context, cycle Cycle) error {
	start := s.clock.Now()
	var slot int64

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.runOnce(ctx, cycle); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.ErrorContext(ctx, "swap cycle failed", slog.Int64("slot", slot), slog.Any("error", err))
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		now := s.clock.Now()
		next := int64(now.Sub(start)/s.interval) + 1
		if skipped := next - slot - 1; skipped > 0 {
			s.logger.WarnContext(ctx, "cycle overran its interval",
				slog.Int64("skipped", skipped),
				slog.Duration("interval", s.interval),
			)
		}

		wait := start.Add(time.Duration(next) * s.interval).Sub(now)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(wait):
		}
		slot = next
	}
}

func (s *Scheduler) runOnce(ctx context.Context, cycle Cycle) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "swap cycle panicked", slog.String("stack", string(debug.Stack())))
			err = errors.Errorf("cycle panic: %v", r)
		}
	}()

	return cycle(ctx)
}
