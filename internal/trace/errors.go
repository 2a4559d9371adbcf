package trace

import (
	"fmt"
	"strings"
	"time"

	"github.com/deixis/pathtrace/internal/target"
)

// ErrInvalidTarget is returned when the target fails validation. No
// process is started.
type ErrInvalidTarget struct {
	Target string
}

func (e *ErrInvalidTarget) Error() string {
	return "Invalid target: " + target.InvalidMessage
}

// ErrToolUnavailable is returned when none of the candidate executables
// could be started.
type ErrToolUnavailable struct {
	Tools []string // every executable attempted, in order
	Err   error    // cause from the last attempt
}

func (e *ErrToolUnavailable) Error() string {
	return fmt.Sprintf("Failed to execute %s: %v", strings.Join(e.Tools, " or "), e.Err)
}

func (e *ErrToolUnavailable) Unwrap() error { return e.Err }

// ErrToolTimeout is returned when a started tool exceeded its deadline
// and was killed.
type ErrToolTimeout struct {
	Tool    string
	Timeout time.Duration
}

func (e *ErrToolTimeout) Error() string {
	return "Traceroute command timed out after " + formatSeconds(e.Timeout)
}

// ErrToolFailed is returned when the tool ran to completion with a
// non-zero exit status. This is a diagnostic result (unreachable host,
// unknown name), not a malfunction.
type ErrToolFailed struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *ErrToolFailed) Error() string {
	return "Traceroute failed: " + e.Stderr
}

// ErrCanceled is returned when the caller's context ended before the tool
// finished.
type ErrCanceled struct {
	Tool string
	Err  error
}

func (e *ErrCanceled) Error() string {
	return fmt.Sprintf("Traceroute canceled: %v", e.Err)
}

func (e *ErrCanceled) Unwrap() error { return e.Err }

// formatSeconds renders whole-second durations as "30 seconds" and
// anything finer with Duration's own notation.
func formatSeconds(d time.Duration) string {
	if d%time.Second == 0 {
		n := int64(d / time.Second)
		if n == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", n)
	}
	return d.String()
}
