package timer

import (
	"sync"
	"time"
)

// Timer calls a frame function at a fixed interval from its own goroutine
// until stopped. It is the host side of the dial's tick loop: the callback
// is expected to hand the tick over to the UI goroutine.
type Timer struct {
	mu       sync.RWMutex
	running  bool
	interval time.Duration
	stopChan chan struct{}
}

func New(interval time.Duration) *Timer {
	return &Timer{
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (t *Timer) Start(frame func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}

	t.running = true
	t.stopChan = make(chan struct{})
	stop := t.stopChan

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				frame()
			}
		}
	}()
}

func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}

	t.running = false
	close(t.stopChan)
}

func (t *Timer) Running() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}
