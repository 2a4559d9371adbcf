//go:build unix

package trace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/deixis/pathtrace/internal/platform"
	"github.com/deixis/pathtrace/internal/runner"
)

// fakeTools points PATH at a fresh directory holding the given scripts,
// keyed by executable name.
func fakeTools(t *testing.T, scripts map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range scripts {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", dir)
	return dir
}

func realEngine(timeout time.Duration) *Engine {
	return &Engine{
		Executor: &runner.Runner{Timeout: timeout},
		OS:       platform.Unix,
	}
}

func TestTraceE2E_NoToolsInstalled(t *testing.T) {
	fakeTools(t, nil)
	_, err := realEngine(5*time.Second).Trace(context.Background(), "10.0.0.1", nil)
	var unavail *ErrToolUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("err = %v, want ErrToolUnavailable", err)
	}
	if strings.Join(unavail.Tools, ",") != "traceroute,tracepath" {
		t.Errorf("Tools = %v", unavail.Tools)
	}
}

func TestTraceE2E_SuccessVerbatim(t *testing.T) {
	fakeTools(t, map[string]string{
		"traceroute": `printf 'traceroute to %s\n 1  127.0.0.1  0.05 ms\n' "$1"`,
	})
	got, err := realEngine(5*time.Second).Trace(context.Background(), "localhost", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "traceroute to localhost\n 1  127.0.0.1  0.05 ms\n" {
		t.Errorf("output = %q", got)
	}
}

func TestTraceE2E_FallsBackToTracepath(t *testing.T) {
	fakeTools(t, map[string]string{
		"tracepath": `echo "tracepath $1"`,
	})
	got, err := realEngine(5*time.Second).Trace(context.Background(), "example.com", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "tracepath example.com\n" {
		t.Errorf("output = %q", got)
	}
}

func TestTraceE2E_NonZeroDoesNotFallBack(t *testing.T) {
	dir := fakeTools(t, map[string]string{
		"traceroute": `echo "unknown host $1" >&2; exit 1`,
	})
	marker := filepath.Join(dir, "tracepath-ran")
	script := "#!/bin/sh\n: > " + marker + "\n"
	if err := os.WriteFile(filepath.Join(dir, "tracepath"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := realEngine(5*time.Second).Trace(context.Background(), "nope.invalid", nil)
	if err == nil || err.Error() != "Traceroute failed: unknown host nope.invalid\n" {
		t.Fatalf("err = %v", err)
	}
	if _, statErr := os.Stat(marker); statErr == nil {
		t.Error("tracepath ran after traceroute exited non-zero")
	}
}

func TestTraceE2E_Timeout(t *testing.T) {
	fakeTools(t, map[string]string{
		"traceroute": `exec /bin/sleep 30`,
	})
	start := time.Now()
	_, err := realEngine(300*time.Millisecond).Trace(context.Background(), "10.255.255.1", nil)
	var to *ErrToolTimeout
	if !errors.As(err, &to) {
		t.Fatalf("err = %v, want ErrToolTimeout", err)
	}
	if err.Error() != "Traceroute command timed out after 300ms" {
		t.Errorf("message = %q", err.Error())
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("trace took %v", time.Since(start))
	}
}
