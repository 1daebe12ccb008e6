package feed

import (
	"sync"

	"antarctic-dashboard/internal/models"
)

var tableColumns = []string{"temp", "timestamp"}

// Feed owns the rolling window. Only the scheduler loop calls Tick; any
// goroutine may call Current.
type Feed struct {
	window *Window
	gen    Generator

	mu    sync.RWMutex
	cycle uint64
	snap  models.Snapshot
	ready bool
}

func New(capacity int, gen Generator) *Feed {
	return &Feed{
		window: NewWindow(capacity),
		gen:    gen,
	}
}

// Tick advances the feed to cycle and returns its snapshot. The reading for a
// cycle is generated once: calls with a cycle that has already been computed
// return the cached snapshot unchanged.
func (f *Feed) Tick(cycle uint64) models.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ready && cycle <= f.cycle {
		return f.snap
	}

	reading := f.gen.Next()
	f.window.Push(reading)

	readings := f.window.Readings()
	f.cycle = cycle
	f.snap = models.Snapshot{
		Cycle:  cycle,
		Window: readings,
		Table:  project(readings),
		Latest: reading,
	}
	f.ready = true

	return f.snap
}

// Current returns the snapshot of the latest cycle. ok is false until the
// first tick.
func (f *Feed) Current() (snap models.Snapshot, ok bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snap, f.ready
}

func (f *Feed) Cycle() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.cycle
}

func (f *Feed) Capacity() int {
	return f.window.Cap()
}

func project(readings []models.Reading) models.Table {
	rows := make([]models.TableRow, len(readings))
	for i, r := range readings {
		rows[i] = models.TableRow{Index: i, Temp: r.Value, Timestamp: r.Timestamp}
	}
	return models.Table{Columns: tableColumns, Rows: rows}
}
