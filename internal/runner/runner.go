// Package runner executes a single trace command with a hard deadline,
// bounded output capture, and guaranteed reclamation of the process.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/deixis/pathtrace/internal/platform"
	"github.com/google/uuid"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Defaults applied when a Runner field is left zero.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultMaxOutput = 1 << 20 // 1 MB
)

// errDeadline is the cancellation cause recorded when the runner's own
// deadline fires, as opposed to a deadline or cancel from the caller.
var errDeadline = errors.New("runner deadline exceeded")

// waitDelay bounds how long Wait blocks on output pipes after the process
// is gone, e.g. when a grandchild escaped the kill and still holds them.
const waitDelay = 2 * time.Second

// LineFunc receives each completed stdout line while the command runs.
// lineNo is 1-based. The line excludes its terminator.
type LineFunc func(lineNo int, line string)

// Runner runs candidates under a wall-clock deadline.
type Runner struct {
	Timeout   time.Duration
	MaxOutput int // bytes, per stream
}

// Run executes c exactly once and classifies the result. It never returns
// nil. When onLine is non-nil, stdout lines are delivered to it as they
// arrive; the captured Stdout is unaffected.
func (r *Runner) Run(ctx context.Context, c platform.Candidate, onLine LineFunc) *Outcome {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxOutput := r.MaxOutput
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutput
	}

	out := &Outcome{
		RunID:     uuid.New().String(),
		Candidate: c,
		ExitCode:  -1,
		Timeout:   timeout,
	}

	ctx, cancel := context.WithTimeoutCause(ctx, timeout, errDeadline)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.WaitDelay = waitDelay
	configureProcess(cmd)

	var stdout, stderr bytes.Buffer
	stdoutLW := &limitWriter{buf: &stdout, limit: maxOutput}
	stderrLW := &limitWriter{buf: &stderr, limit: maxOutput}
	var stdoutW io.Writer = stdoutLW
	var lines *lineWriter
	if onLine != nil {
		lines = &lineWriter{fn: onLine}
		stdoutW = io.MultiWriter(stdoutW, lines)
	}
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrLW

	start := time.Now()
	runErr := cmd.Run()
	out.Duration = time.Since(start)

	if cmd.ProcessState != nil {
		// The leader is reaped; kill anything it left in its group.
		reclaim(cmd)
		out.ExitCode = cmd.ProcessState.ExitCode()
	}

	if lines != nil {
		lines.Flush()
	}

	out.Stdout = decode(stdout.Bytes())
	out.Stderr = decode(stderr.Bytes())
	out.Truncated = stdoutLW.dropped || stderrLW.dropped

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		out.Kind = Succeeded
	case errors.Is(context.Cause(ctx), errDeadline):
		// Killed by us; whatever exit status the kill produced is noise.
		out.Kind = TimedOut
		out.Err = context.DeadlineExceeded
	case ctx.Err() != nil:
		// The caller gave up first, by cancel or by its own deadline.
		out.Kind = Canceled
		out.Err = context.Cause(ctx)
	case errors.Is(runErr, exec.ErrWaitDelay):
		// The tool exited zero but a descendant kept its pipes open.
		out.Kind = Succeeded
	case errors.As(runErr, &exitErr):
		out.Kind = FailedNonZero
	default:
		// Not found on PATH, permission denied, bad executable format.
		out.Kind = SpawnFailed
		out.Err = runErr
	}
	return out
}

// decode converts raw tool output to text, replacing invalid UTF-8
// sequences with U+FFFD instead of failing.
func decode(b []byte) string {
	s, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(s)
}

// limitWriter writes up to limit bytes to buf, then silently discards the rest.
type limitWriter struct {
	buf     *bytes.Buffer
	limit   int
	dropped bool // some bytes were discarded
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		if len(p) > 0 {
			w.dropped = true
		}
		return len(p), nil // discard
	}
	if len(p) > remaining {
		w.dropped = true
		// Write only what fits, but report all bytes as consumed
		// to avoid short write errors from io.Copy.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}

// maxLine caps a single unterminated line before it is emitted anyway.
const maxLine = 64 << 10

// lineWriter splits a byte stream into lines and hands each to fn.
type lineWriter struct {
	fn      LineFunc
	partial []byte
	n       int
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.partial = append(w.partial, p...)
	for {
		i := bytes.IndexByte(w.partial, '\n')
		if i < 0 {
			break
		}
		w.emit(w.partial[:i])
		w.partial = w.partial[i+1:]
	}
	if len(w.partial) >= maxLine {
		w.emit(w.partial)
		w.partial = nil
	}
	return len(p), nil
}

// Flush emits any trailing unterminated line.
func (w *lineWriter) Flush() {
	if len(w.partial) > 0 {
		w.emit(w.partial)
		w.partial = nil
	}
}

func (w *lineWriter) emit(b []byte) {
	w.n++
	w.fn(w.n, strings.TrimSuffix(decode(b), "\r"))
}
