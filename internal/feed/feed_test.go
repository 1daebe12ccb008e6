package feed

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"antarctic-dashboard/internal/models"
)

// sequenceGenerator yields 1, 2, 3, ... and counts calls.
type sequenceGenerator struct {
	mu    sync.Mutex
	calls int
}

func (g *sequenceGenerator) Next() models.Reading {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return models.Reading{
		Value:     float64(g.calls),
		Timestamp: fmt.Sprintf("2026-01-01 00:00:%02d", g.calls),
	}
}

func (g *sequenceGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func TestWindowLengthIsBounded(t *testing.T) {
	for _, capacity := range []int{1, 3, 5} {
		w := NewWindow(capacity)
		for ticks := 1; ticks <= 10; ticks++ {
			w.Push(models.Reading{Value: float64(ticks)})
			require.Equal(t, min(capacity, ticks), w.Len(), "capacity=%d ticks=%d", capacity, ticks)
		}
	}
}

func TestWindowEvictsOldest(t *testing.T) {
	w := NewWindow(3)
	for i := 1; i <= 5; i++ {
		w.Push(models.Reading{Value: float64(i)})
	}

	got := w.Readings()
	require.Equal(t, []float64{3, 4, 5}, []float64{got[0].Value, got[1].Value, got[2].Value})
}

func TestWindowReadingsIsCopy(t *testing.T) {
	w := NewWindow(2)
	w.Push(models.Reading{Value: 1})

	got := w.Readings()
	got[0].Value = 99

	require.Equal(t, 1.0, w.Readings()[0].Value)
}

func TestNewWindowClampsCapacity(t *testing.T) {
	require.Equal(t, 1, NewWindow(0).Cap())
}

func TestFeedTick(t *testing.T) {
	gen := &sequenceGenerator{}
	f := New(3, gen)

	_, ok := f.Current()
	require.False(t, ok)

	for cycle := uint64(1); cycle <= 4; cycle++ {
		snap := f.Tick(cycle)
		require.Equal(t, cycle, snap.Cycle)
		require.Equal(t, float64(cycle), snap.Latest.Value)
		require.Equal(t, snap.Window[len(snap.Window)-1], snap.Latest)
	}

	snap, ok := f.Current()
	require.True(t, ok)
	require.Equal(t, []float64{2, 3, 4}, snap.Values())
	require.Equal(t, []string{"temp", "timestamp"}, snap.Table.Columns)
	require.Len(t, snap.Table.Rows, 3)
	require.Equal(t, models.TableRow{Index: 0, Temp: 2, Timestamp: "2026-01-01 00:00:02"}, snap.Table.Rows[0])
}

func TestFeedTickIsMemoizedPerCycle(t *testing.T) {
	gen := &sequenceGenerator{}
	f := New(3, gen)

	first := f.Tick(1)
	again := f.Tick(1)
	stale := f.Tick(0)

	require.Equal(t, first, again)
	require.Equal(t, first, stale)
	require.Equal(t, 1, gen.Calls())

	next := f.Tick(2)
	require.NotEqual(t, first.Latest, next.Latest)
	require.Equal(t, 2, gen.Calls())
}

func TestFeedConcurrentReadersSeeSameReading(t *testing.T) {
	gen := &sequenceGenerator{}
	f := New(3, gen)
	f.Tick(1)

	var wg sync.WaitGroup
	results := make([]models.Reading, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.Tick(1).Latest
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.Equal(t, results[0], r)
	}
	require.Equal(t, 1, gen.Calls())
}

func TestUniformGeneratorRange(t *testing.T) {
	gen := NewUniformGenerator(-40, -20, WithSeed(7))
	for i := 0; i < 5000; i++ {
		r := gen.Next()
		require.GreaterOrEqual(t, r.Value, -40.0)
		require.LessOrEqual(t, r.Value, -20.0)
	}
}

func TestUniformGeneratorClampsOffGridBounds(t *testing.T) {
	gen := NewUniformGenerator(-20.04, -20.01, WithSeed(1))
	for i := 0; i < 500; i++ {
		r := gen.Next()
		require.GreaterOrEqual(t, r.Value, -20.04)
		require.LessOrEqual(t, r.Value, -20.01)
	}
}

func TestUniformGeneratorRoundsToOneDecimal(t *testing.T) {
	gen := NewUniformGenerator(-40, -20, WithSeed(42))
	for i := 0; i < 100; i++ {
		v := gen.Next().Value
		require.InDelta(t, v, math.Round(v*10)/10, 1e-9)
	}
}

func TestUniformGeneratorSeedIsReproducible(t *testing.T) {
	a := NewUniformGenerator(-40, -20, WithSeed(3))
	b := NewUniformGenerator(-40, -20, WithSeed(3))
	for i := 0; i < 10; i++ {
		require.Equal(t, a.Next().Value, b.Next().Value)
	}
}

func TestUniformGeneratorTimestamp(t *testing.T) {
	at := time.Date(2026, 10, 19, 8, 5, 9, 0, time.Local)
	gen := NewUniformGenerator(-40, -20, WithClock(func() time.Time { return at }))

	r := gen.Next()
	require.Equal(t, "2026-10-19 08:05:09", r.Timestamp)

	parsed, err := r.Time()
	require.NoError(t, err)
	require.True(t, at.Equal(parsed))
}

func TestUniformGeneratorSwapsInvertedRange(t *testing.T) {
	gen := NewUniformGenerator(-20, -40, WithSeed(5))
	r := gen.Next()
	require.GreaterOrEqual(t, r.Value, -40.0)
	require.LessOrEqual(t, r.Value, -20.0)
}

func TestSchedulerFansOutSameSnapshot(t *testing.T) {
	gen := &sequenceGenerator{}
	f := New(3, gen)
	s := NewScheduler(f, time.Hour, nil)

	var mu sync.Mutex
	seen := map[uint64][]models.Reading{}
	record := ListenerFunc(func(_ context.Context, snap models.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		seen[snap.Cycle] = append(seen[snap.Cycle], snap.Latest)
	})
	s.AddListener(record)
	s.AddListener(record)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return f.Cycle() == 1 }, time.Second, 5*time.Millisecond)
	require.True(t, s.Trigger())
	require.Eventually(t, func() bool { return f.Cycle() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	for cycle, readings := range seen {
		require.Len(t, readings, 2, "cycle %d", cycle)
		require.Equal(t, readings[0], readings[1])
	}
	require.Equal(t, 2, gen.Calls())
}

func TestSchedulerInterval(t *testing.T) {
	f := New(3, &sequenceGenerator{})
	s := NewScheduler(f, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	require.Eventually(t, func() bool { return f.Cycle() >= 4 }, 2*time.Second, 5*time.Millisecond)

	snap, ok := f.Current()
	require.True(t, ok)
	require.Len(t, snap.Window, 3)
}

func TestSchedulerNonPositiveIntervalFallsBack(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		f := New(3, &sequenceGenerator{})
		s := NewScheduler(f, interval, nil)
		require.Equal(t, DefaultInterval, s.interval)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			s.Run(ctx)
			close(done)
		}()

		require.Eventually(t, func() bool { return f.Cycle() == 1 }, time.Second, 5*time.Millisecond)
		cancel()
		<-done
	}
}
