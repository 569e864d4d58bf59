package dial

// Listener is the set of notifications a controller emits. Any field may be
// nil.
type Listener struct {
	// OnTimeChangedByUser fires once per committed drag update.
	OnTimeChangedByUser func(time int)

	OnStartTrackingTouch func()
	OnStopTrackingTouch  func()
	OnPlayStarted        func()

	// OnPlayStopped fires when a running timer is stopped before the end.
	OnPlayStopped func()

	// OnPlayFinished fires when the clock carries the timer to the end.
	OnPlayFinished func()
}

func (l *Listener) timeChangedByUser(v int) {
	if l != nil && l.OnTimeChangedByUser != nil {
		l.OnTimeChangedByUser(v)
	}
}

func (l *Listener) startTrackingTouch() {
	if l != nil && l.OnStartTrackingTouch != nil {
		l.OnStartTrackingTouch()
	}
}

func (l *Listener) stopTrackingTouch() {
	if l != nil && l.OnStopTrackingTouch != nil {
		l.OnStopTrackingTouch()
	}
}

func (l *Listener) playStarted() {
	if l != nil && l.OnPlayStarted != nil {
		l.OnPlayStarted()
	}
}

func (l *Listener) playStopped() {
	if l != nil && l.OnPlayStopped != nil {
		l.OnPlayStopped()
	}
}

func (l *Listener) playFinished() {
	if l != nil && l.OnPlayFinished != nil {
		l.OnPlayFinished()
	}
}
