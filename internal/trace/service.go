package trace

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/deixis/pathtrace/internal/config"
	"github.com/deixis/pathtrace/internal/platform"
	"github.com/deixis/pathtrace/internal/runner"
)

// Service serves traces for a long-running transport. The configuration
// may be swapped at any time; each call snapshots it once, so a reload
// never changes an in-flight trace.
type Service struct {
	cfg    atomic.Pointer[config.Config]
	os     platform.OS
	logger *slog.Logger
}

// NewService returns a Service for the current OS.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{os: platform.Current, logger: logger}
	s.cfg.Store(cfg)
	return s
}

// Reload replaces the configuration used by subsequent calls.
func (s *Service) Reload(cfg *config.Config) {
	s.cfg.Store(cfg)
}

// Config returns the current configuration.
func (s *Service) Config() *config.Config {
	return s.cfg.Load()
}

// OS returns the platform the service resolves candidates for.
func (s *Service) OS() platform.OS {
	return s.os
}

// Logger returns the service logger.
func (s *Service) Logger() *slog.Logger {
	return s.logger
}

// Engine builds a call-scoped Engine from the current configuration.
func (s *Service) Engine() *Engine {
	cfg := s.cfg.Load()
	return &Engine{
		Executor: &runner.Runner{
			Timeout:   cfg.Timeout(),
			MaxOutput: cfg.MaxOutputBytes(),
		},
		OS:     s.os,
		Logger: s.logger,
	}
}

// Trace runs one path trace with the current configuration.
func (s *Service) Trace(ctx context.Context, target string, onLine runner.LineFunc) (string, error) {
	return s.Engine().Trace(ctx, target, onLine)
}
