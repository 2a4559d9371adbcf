package trace

import (
	"testing"
	"time"

	"github.com/deixis/pathtrace/internal/config"
	"github.com/deixis/pathtrace/internal/platform"
	"github.com/deixis/pathtrace/internal/runner"
)

func TestService_EngineSnapshotsConfig(t *testing.T) {
	svc := NewService(&config.Config{RawTimeout: "5s", RawMaxOutput: 512}, nil)

	e := svc.Engine()
	r, ok := e.Executor.(*runner.Runner)
	if !ok {
		t.Fatalf("Executor = %T, want *runner.Runner", e.Executor)
	}
	if r.Timeout != 5*time.Second || r.MaxOutput != 512 {
		t.Errorf("runner = %+v", r)
	}
	if e.OS != platform.Current {
		t.Errorf("OS = %v", e.OS)
	}

	svc.Reload(&config.Config{RawTimeout: "1m"})
	if r.Timeout != 5*time.Second {
		t.Error("reload mutated an existing engine")
	}
	r2 := svc.Engine().Executor.(*runner.Runner)
	if r2.Timeout != time.Minute || r2.MaxOutput != config.DefaultMaxOutput {
		t.Errorf("reloaded runner = %+v", r2)
	}
	if svc.Config().RawTimeout != "1m" {
		t.Errorf("Config() = %+v", svc.Config())
	}
}

func TestService_DefaultTimeoutIsThirtySeconds(t *testing.T) {
	svc := NewService(&config.Config{}, nil)
	r := svc.Engine().Executor.(*runner.Runner)
	if r.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", r.Timeout)
	}
}
