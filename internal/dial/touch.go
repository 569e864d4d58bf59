package dial

// TouchState is the phase of a press-drag-release interaction.
type TouchState int

const (
	TouchIdle TouchState = iota
	// TouchPressedOutsideRing is a press that may still turn into a tap.
	TouchPressedOutsideRing
	TouchTracking
)

func (s TouchState) String() string {
	switch s {
	case TouchIdle:
		return "idle"
	case TouchPressedOutsideRing:
		return "pressed"
	case TouchTracking:
		return "tracking"
	}
	return "unknown"
}

// touchSession lives from a press until the matching release or cancel.
type touchSession struct {
	state            TouchState
	startProgress    int
	updateCount      int
	previousProgress int
	currentProgress  int
}

func newTouchSession(start int) *touchSession {
	return &touchSession{
		state:            TouchPressedOutsideRing,
		startProgress:    start,
		previousProgress: start,
		currentProgress:  start,
	}
}

// blocked reports whether moving to progress goes in a direction the
// controller forbids, relative to where the drag started.
func (s *touchSession) blocked(progress int, allowForward, allowBackward bool) bool {
	if progress > s.startProgress && !allowForward {
		return true
	}
	return progress < s.startProgress && !allowBackward
}

// record tracks the committed value before progress. The first update of a
// session seeds both sides so the wraparound check sees no jump.
func (s *touchSession) record(committed, progress int) {
	if s.updateCount == 0 {
		s.previousProgress = progress
	} else {
		s.previousProgress = committed
	}
	s.currentProgress = progress
}

// wrap resolves a jump across 12 o'clock. A drag from the last quarter into
// the first one ends at fullTime, the reverse at 0.
func (s *touchSession) wrap(progress, fullTime int) int {
	quarter := fullTime / 4
	switch {
	case s.currentProgress <= quarter && s.previousProgress >= fullTime-quarter:
		s.currentProgress = fullTime
		return fullTime
	case s.currentProgress >= fullTime-quarter && s.previousProgress <= quarter:
		s.currentProgress = 0
		return 0
	}
	return progress
}
