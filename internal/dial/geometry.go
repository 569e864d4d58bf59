package dial

import (
	"fmt"
	"math"
)

// InvalidProgress marks a progress value that must not be committed.
const InvalidProgress = -1

// thinRingRatio is the width/radius ratio below which the ring's hit area
// is widened inwards.
const thinRingRatio = 0.25

// PointToAngle returns the clockwise angle of (x, y) around the center in
// degrees, in [0, 360), with 0 at the 12 o'clock position.
func PointToAngle(x, y, centerX, centerY float64) float64 {
	angle := (math.Atan2(y-centerY, x-centerX) + math.Pi/2) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	return angle
}

// AngleToProgress maps an angle in degrees onto [0, fullTime].
func AngleToProgress(angle float64, fullTime int) int {
	return int(math.Round(angle * float64(fullTime) / 360))
}

// ValuePerDegree is the amount of time one degree of sweep represents.
func ValuePerDegree(fullTime int) float64 {
	return float64(fullTime) / 360
}

// ProgressToSweep is the inverse of AngleToProgress.
func ProgressToSweep(progress, fullTime int) float64 {
	return float64(progress) * 360 / float64(fullTime)
}

// PointToProgress converts a point to a progress value, or InvalidProgress
// when the point sits on the center and has no angle.
func PointToProgress(x, y, centerX, centerY float64, fullTime int) int {
	if x == centerX && y == centerY {
		return InvalidProgress
	}
	return AngleToProgress(PointToAngle(x, y, centerX, centerY), fullTime)
}

// Ring describes the draggable annulus of the dial. Radius is the outer
// radius of the widget and Width the width of the groove (or the progress
// stroke when there is no groove).
type Ring struct {
	CenterX float64
	CenterY float64
	Radius  float64
	Width   float64
}

func NewRing(centerX, centerY, radius, width float64) (Ring, error) {
	r := Ring{CenterX: centerX, CenterY: centerY, Radius: radius, Width: width}
	if err := r.Validate(); err != nil {
		return Ring{}, err
	}
	return r, nil
}

func (r Ring) Validate() error {
	if r.Radius <= 0 {
		return fmt.Errorf("%w: ring radius must be positive, got %g", ErrInvalidConfiguration, r.Radius)
	}
	if r.Width <= 0 || r.Width > r.Radius {
		return fmt.Errorf("%w: ring width must be in (0, %g], got %g", ErrInvalidConfiguration, r.Radius, r.Width)
	}
	return nil
}

// ArcRadius is the radius of the progress stroke's center line. It is also
// the radius of the inner disc used for tap gestures.
func (r Ring) ArcRadius() float64 {
	return r.Radius - r.Width/2
}

func (r Ring) hitInnerRadius() float64 {
	if r.Width/r.Radius < thinRingRatio {
		// thin rings are hard to grab
		return r.Radius - r.Width*1.5
	}
	return r.Radius - r.Width
}

// HitsArc reports whether (x, y) falls on the draggable annulus.
func (r Ring) HitsArc(x, y float64) bool {
	d2 := r.dist2(x, y)
	inner := r.hitInnerRadius()
	return d2 <= r.Radius*r.Radius && d2 >= inner*inner
}

// HitsInner reports whether (x, y) falls inside the inner disc.
func (r Ring) HitsInner(x, y float64) bool {
	arc := r.ArcRadius()
	return r.dist2(x, y) <= arc*arc
}

func (r Ring) dist2(x, y float64) float64 {
	dx := x - r.CenterX
	dy := y - r.CenterY
	return dx*dx + dy*dy
}
