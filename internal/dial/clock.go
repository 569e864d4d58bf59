package dial

import "time"

// Clock abstracts wall-clock time so tick deltas are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// ticker measures the wall-clock delta between host frames while the
// controller is attached.
type ticker struct {
	clock    Clock
	attached bool
	previous time.Time
}

func (t *ticker) attach() {
	t.attached = true
	t.previous = t.clock.Now()
}

func (t *ticker) detach() {
	t.attached = false
}

// mark resets the reference point, so the next delta starts now.
func (t *ticker) mark() {
	t.previous = t.clock.Now()
}

// delta returns the whole milliseconds since the previous mark and moves
// the mark by that amount, so sub-millisecond remainders carry over.
func (t *ticker) delta() time.Duration {
	now := t.clock.Now()
	d := now.Sub(t.previous).Truncate(time.Millisecond)
	if d < 0 {
		t.previous = now
		return 0
	}
	t.previous = t.previous.Add(d)
	return d
}
