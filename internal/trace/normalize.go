package trace

import (
	"errors"

	"github.com/deixis/pathtrace/internal/runner"
)

var errNoCandidates = errors.New("no trace tool known for this platform")

// Normalize maps a final outcome to the caller-facing result. attempted
// names every executable tried, for the unavailable-tool message.
func Normalize(out *runner.Outcome, attempted []string) (string, error) {
	switch out.Kind {
	case runner.Succeeded:
		return out.Stdout, nil
	case runner.FailedNonZero:
		return "", &ErrToolFailed{
			Tool:     out.Candidate.Name,
			ExitCode: out.ExitCode,
			Stderr:   out.Stderr,
		}
	case runner.TimedOut:
		return "", &ErrToolTimeout{Tool: out.Candidate.Name, Timeout: out.Timeout}
	case runner.Canceled:
		return "", &ErrCanceled{Tool: out.Candidate.Name, Err: out.Err}
	default:
		tools := attempted
		if len(tools) == 0 && out.Candidate.Name != "" {
			tools = []string{out.Candidate.Name}
		}
		return "", &ErrToolUnavailable{Tools: tools, Err: out.Err}
	}
}
