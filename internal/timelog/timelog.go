package timelog

import "time"

// Outcome is how a play run ended.
type Outcome string

const (
	OutcomeStopped  Outcome = "stopped"
	OutcomeFinished Outcome = "finished"
)

// TimeLog represents one play run of the dial, from play to stop or finish.
type TimeLog struct {
	ID        int64
	PresetID  int64
	StartedAt time.Time
	StoppedAt time.Time
	// Elapsed is how far the dial advanced during the run.
	Elapsed time.Duration
	Outcome Outcome
	Tag     string
}
