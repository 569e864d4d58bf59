package preset

import (
	"fmt"
	"time"

	"dialtimer/internal/dial"
)

// Preset is a named dial configuration. Only configuration is stored; the
// position of a running dial is never saved.
type Preset struct {
	ID            int64
	Name          string
	FullTime      time.Duration
	Countdown     bool
	AllowForward  bool
	AllowBackward bool
}

func NewPreset(name string, fullTime time.Duration) *Preset {
	return &Preset{
		Name:          name,
		FullTime:      fullTime,
		Countdown:     true,
		AllowForward:  true,
		AllowBackward: true,
	}
}

// DialConfig returns the dial configuration for this preset, with pointer
// input enabled and the dial at zero.
func (p *Preset) DialConfig() dial.Config {
	return dial.Config{
		FullTime:          int(p.FullTime / time.Millisecond),
		Countdown:         p.Countdown,
		AllowMoveForward:  p.AllowForward,
		AllowMoveBackward: p.AllowBackward,
		Enabled:           true,
	}
}

// validate rejects presets the dial cannot run. The dial counts whole
// milliseconds.
func (p *Preset) validate() error {
	if p.FullTime < time.Millisecond {
		return fmt.Errorf("preset %q: full time must be at least 1ms, got %v", p.Name, p.FullTime)
	}
	return nil
}
