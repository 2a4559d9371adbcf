// Package trace implements the run-path-trace pipeline: validate the
// target, resolve the platform's candidate tools, run them with fallback,
// and normalise the outcome into output text or an error.
package trace

import (
	"context"
	"log/slog"

	"github.com/deixis/pathtrace/internal/platform"
	"github.com/deixis/pathtrace/internal/runner"
	"github.com/deixis/pathtrace/internal/target"
)

// Executor runs one candidate once under a deadline.
// Implemented by runner.Runner.
type Executor interface {
	Run(ctx context.Context, c platform.Candidate, onLine runner.LineFunc) *runner.Outcome
}

// Engine holds the dependencies of a trace. It is not modified after
// construction and is safe for concurrent use.
type Engine struct {
	Executor Executor
	OS       platform.OS
	Logger   *slog.Logger // nil uses slog.Default()
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// Trace runs the path-tracing tool against tgt and returns its raw
// stdout. On failure the error is one of ErrInvalidTarget,
// ErrToolUnavailable, ErrToolTimeout, ErrToolFailed or ErrCanceled. When
// onLine is non-nil it receives stdout lines as they are produced.
func (e *Engine) Trace(ctx context.Context, tgt string, onLine runner.LineFunc) (string, error) {
	if !target.Validate(tgt) {
		e.logger().Info("rejected target", "len", len(tgt))
		return "", &ErrInvalidTarget{Target: tgt}
	}

	candidates := platform.Candidates(e.OS, tgt)
	out, attempted := e.Coordinate(ctx, candidates, onLine)

	e.logger().Info("trace finished",
		"run_id", out.RunID,
		"target", tgt,
		"tool", out.Candidate.Name,
		"outcome", out.Kind.String(),
		"duration", out.Duration,
	)
	return Normalize(out, attempted)
}

// Coordinate runs candidates in order and returns the first terminal
// outcome. Only SpawnFailed advances to the next candidate: a tool that
// ran and failed or hung is a real diagnostic, and trying another tool
// would hide it. The second result lists the executables attempted.
func (e *Engine) Coordinate(ctx context.Context, candidates []platform.Candidate, onLine runner.LineFunc) (*runner.Outcome, []string) {
	var (
		out       *runner.Outcome
		attempted []string
	)
	for _, c := range candidates {
		out = e.Executor.Run(ctx, c, onLine)
		attempted = append(attempted, c.Name)

		e.logger().Debug("candidate finished",
			"run_id", out.RunID,
			"tool", c.Name,
			"outcome", out.Kind.String(),
			"exit_code", out.ExitCode,
		)

		if out.Kind != runner.SpawnFailed {
			return out, attempted
		}
	}
	if out == nil {
		// Resolvers always return at least one candidate; keep the
		// contract of never returning nil regardless.
		out = &runner.Outcome{Kind: runner.SpawnFailed, ExitCode: -1, Err: errNoCandidates}
	}
	return out, attempted
}
