package runner

import (
	"time"

	"github.com/deixis/pathtrace/internal/platform"
)

// Kind tags how a single candidate execution ended.
type Kind int

const (
	// Succeeded means the tool exited zero; Stdout holds its output.
	Succeeded Kind = iota
	// FailedNonZero means the tool ran and exited non-zero; Stderr holds
	// its diagnostics.
	FailedNonZero
	// SpawnFailed means the executable could not be started at all. Err
	// holds the cause.
	SpawnFailed
	// TimedOut means the deadline fired and the process group was killed.
	TimedOut
	// Canceled means the caller's context was canceled mid-run.
	Canceled
)

func (k Kind) String() string {
	switch k {
	case Succeeded:
		return "succeeded"
	case FailedNonZero:
		return "failed"
	case SpawnFailed:
		return "spawn_failed"
	case TimedOut:
		return "timed_out"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Outcome holds the result of running one candidate once.
type Outcome struct {
	RunID     string             // unique identifier for this run
	Kind      Kind               // how the run ended
	Candidate platform.Candidate // what was run
	Stdout    string             // lossily decoded stdout (may be truncated)
	Stderr    string             // lossily decoded stderr (may be truncated)
	ExitCode  int                // process exit code; -1 if it never exited normally
	Err       error              // spawn or cancellation cause
	Timeout   time.Duration      // deadline that applied to the run
	Duration  time.Duration      // wall time from spawn attempt to return
	Truncated bool               // true if either stream exceeded the size cap
}
