package dial

import (
	"math"
	"time"
)

// TweenDuration is how long the visible sweep takes to reach a new target.
const TweenDuration = 600 * time.Millisecond

// Easing maps the elapsed fraction of a tween onto the travelled fraction.
type Easing func(t float64) float64

func Linear(t float64) float64 {
	return t
}

// EaseInOut accelerates out of the start and decelerates into the end.
func EaseInOut(t float64) float64 {
	return math.Cos((t+1)*math.Pi)/2 + 0.5
}

type tween struct {
	from    float64
	to      float64
	elapsed time.Duration
	easing  Easing
}

// Animator holds the visible sweep and moves it towards a target over
// TweenDuration. It never touches the logical time.
type Animator struct {
	visible  float64
	duration time.Duration
	active   *tween
}

func NewAnimator(visible float64) *Animator {
	return &Animator{visible: visible, duration: TweenDuration}
}

func (a *Animator) Visible() float64 {
	return a.visible
}

func (a *Animator) InFlight() bool {
	return a.active != nil
}

// Target is where the visible sweep is heading, or the visible sweep itself
// when idle.
func (a *Animator) Target() float64 {
	if a.active == nil {
		return a.visible
	}
	return a.active.to
}

// Retarget starts a tween from the visible sweep to "to". A tween already in
// flight keeps its elapsed time and only has its end points moved.
func (a *Animator) Retarget(to float64, smooth bool) {
	if a.active != nil {
		a.active.from = a.visible
		a.active.to = to
		return
	}
	easing := Linear
	if smooth {
		easing = EaseInOut
	}
	a.active = &tween{from: a.visible, to: to, easing: easing}
}

// Jump sets the visible sweep and drops any tween.
func (a *Animator) Jump(v float64) {
	a.visible = v
	a.active = nil
}

// Step advances the tween by dt. It reports whether a frame was produced.
func (a *Animator) Step(dt time.Duration) bool {
	if a.active == nil {
		return false
	}
	tw := a.active
	tw.elapsed += dt
	if tw.elapsed >= a.duration {
		a.visible = tw.to
		a.active = nil
		return true
	}
	frac := float64(tw.elapsed) / float64(a.duration)
	a.visible = tw.from + (tw.to-tw.from)*tw.easing(frac)
	return true
}
