package dial

import "fmt"

// Config is the dial configuration. Times are in milliseconds.
type Config struct {
	FullTime          int
	CurTime           int
	Countdown         bool
	AllowMoveForward  bool
	AllowMoveBackward bool
	Enabled           bool
}

// DefaultConfig returns a one minute countdown that accepts drags in both
// directions.
func DefaultConfig() Config {
	return Config{
		FullTime:          60000,
		Countdown:         true,
		AllowMoveForward:  true,
		AllowMoveBackward: true,
		Enabled:           true,
	}
}

func (c Config) Validate() error {
	if c.FullTime <= 0 {
		return fmt.Errorf("%w: full time should be greater than 0, got %d", ErrInvalidConfiguration, c.FullTime)
	}
	return nil
}

func clamp(v, full int) int {
	if v < 0 {
		return 0
	}
	if v > full {
		return full
	}
	return v
}
