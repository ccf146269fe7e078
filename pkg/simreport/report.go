// Package simreport persists and formats the outcome of a completed run,
// the way pkg/reporting does for the teacher's live chaos tests: a JSON
// record on disk, plus human-readable text/HTML renderings.
package simreport

import (
	"time"

	"github.com/jihwankim/matrixsim/pkg/sim"
)

// RunReport wraps a sim.RunOutcome with the identifying and timing
// information a stored record needs.
type RunReport struct {
	RunID        string        `json:"run_id"`
	ScenarioName string        `json:"scenario_name"`
	Seed         uint64        `json:"seed"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
	WallDuration time.Duration `json:"wall_duration"`

	HaltReason        string `json:"halt_reason"`
	FinalClock        uint64 `json:"final_clock_jiffies"`
	EventsDispatched  uint64 `json:"events_dispatched"`
	DeliverCount      uint64 `json:"deliver_count"`
	TimerFireCount    uint64 `json:"timer_fire_count"`
	DroppedTimerCount uint64 `json:"dropped_timer_count"`

	ProcessCount int `json:"process_count"`
}

// FromOutcome builds a RunReport from a completed run's outcome and the
// metadata surrounding it. started/finished are caller-supplied wall-clock
// timestamps (simreport accepts timestamps rather than calling time.Now
// itself, so callers driving deterministic replays can supply fixed
// values).
func FromOutcome(runID, scenarioName string, seed uint64, processCount int, outcome sim.RunOutcome, started, finished time.Time) RunReport {
	return RunReport{
		RunID:             runID,
		ScenarioName:      scenarioName,
		Seed:              seed,
		StartedAt:         started,
		FinishedAt:        finished,
		WallDuration:      finished.Sub(started),
		HaltReason:        outcome.HaltReason.String(),
		FinalClock:        uint64(outcome.FinalClock),
		EventsDispatched:  outcome.EventsDispatched,
		DeliverCount:      outcome.DeliverCount,
		TimerFireCount:    outcome.TimerFireCount,
		DroppedTimerCount: outcome.DroppedTimerCount,
		ProcessCount:      processCount,
	}
}
