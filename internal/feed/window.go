package feed

import (
	"github.com/gammazero/deque"

	"antarctic-dashboard/internal/models"
)

// Window is a fixed-capacity FIFO of readings, oldest first.
type Window struct {
	capacity int
	readings deque.Deque[models.Reading]
}

func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{capacity: capacity}
}

// Push appends r, evicting the oldest reading when the window is full.
func (w *Window) Push(r models.Reading) {
	if w.readings.Len() == w.capacity {
		w.readings.PopFront()
	}
	w.readings.PushBack(r)
}

func (w *Window) Len() int { return w.readings.Len() }

func (w *Window) Cap() int { return w.capacity }

// Readings returns a copy of the window contents, oldest first.
func (w *Window) Readings() []models.Reading {
	out := make([]models.Reading, w.readings.Len())
	for i := range out {
		out[i] = w.readings.At(i)
	}
	return out
}
