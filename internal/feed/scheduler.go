package feed

import (
	"context"
	"log/slog"
	"time"

	"antarctic-dashboard/internal/models"
)

// Listener receives the snapshot of each new cycle on the scheduler loop.
// Implementations must not block for long.
type Listener interface {
	OnTick(ctx context.Context, snap models.Snapshot)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, snap models.Snapshot)

func (f ListenerFunc) OnTick(ctx context.Context, snap models.Snapshot) { f(ctx, snap) }

// Scheduler drives a Feed from a single event loop. An interval ticker and
// Trigger both post tick events to the same queue, so the feed has exactly one
// writer.
type Scheduler struct {
	feed      *Feed
	interval  time.Duration
	events    chan struct{}
	listeners []Listener
	log       *slog.Logger
	cycle     uint64
}

// DefaultInterval is used when NewScheduler is given a non-positive interval.
const DefaultInterval = 3 * time.Second

func NewScheduler(feed *Feed, interval time.Duration, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	if interval <= 0 {
		log.Warn("invalid feed interval, using default", "interval", interval, "default", DefaultInterval)
		interval = DefaultInterval
	}
	return &Scheduler{
		feed:     feed,
		interval: interval,
		events:   make(chan struct{}, 16),
		log:      log,
	}
}

// AddListener registers l. It must be called before Run.
func (s *Scheduler) AddListener(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Trigger enqueues an immediate tick. It reports false if the queue is full.
func (s *Scheduler) Trigger() bool {
	select {
	case s.events <- struct{}{}:
		return true
	default:
		return false
	}
}

// Run ticks once immediately and then on every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("feed scheduler started", "interval", s.interval, "window", s.feed.Capacity())
	s.step(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("feed scheduler stopped", "cycles", s.cycle)
			return
		case <-ticker.C:
			s.step(ctx)
		case <-s.events:
			s.step(ctx)
		}
	}
}

func (s *Scheduler) step(ctx context.Context) {
	s.cycle++
	snap := s.feed.Tick(s.cycle)

	s.log.Debug("feed tick", "cycle", snap.Cycle, "temp", snap.Latest.Value, "window", len(snap.Window))

	for _, l := range s.listeners {
		l.OnTick(ctx, snap)
	}
}
