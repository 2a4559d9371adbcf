// Package config loads and validates the optional pathtrace YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for runner and logging configuration.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxOutput  = 1 << 20 // 1 MB
	DefaultLogLevel   = "info"
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
)

// EnvPath names the environment variable that overrides file discovery.
const EnvPath = "PATHTRACE_CONFIG"

// LocalFile is the per-directory config file name.
const LocalFile = ".pathtrace"

// Config holds the parsed pathtrace configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version      int        `yaml:"version"`
	RawTimeout   string     `yaml:"timeout"`    // e.g. "30s", "1m"
	RawMaxOutput int        `yaml:"max_output"` // bytes
	Log          LogConfig  `yaml:"log"`
	HTTP         HTTPConfig `yaml:"http"`
}

// LogConfig controls where and how much is logged.
type LogConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	Format     string `yaml:"format"`      // text or json
	File       string `yaml:"file"`        // empty logs to stderr
	MaxSizeMB  int    `yaml:"max_size_mb"` // rotate after this size
	MaxBackups int    `yaml:"max_backups"` // rotated files kept
}

// HTTPConfig controls the HTTP transport of the serve command.
type HTTPConfig struct {
	Addr string `yaml:"addr"` // e.g. "127.0.0.1:9090"; empty serves stdio
}

// Timeout returns the configured per-candidate deadline or the default.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultTimeout
}

// MaxOutputBytes returns the configured max output size or the default.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return DefaultMaxOutput
}

// LogLevel returns the configured log level, lower-cased, or the default.
func (c *Config) LogLevel() string {
	if c.Log.Level != "" {
		return strings.ToLower(c.Log.Level)
	}
	return DefaultLogLevel
}

// LogMaxSizeMB returns the rotation size or the default.
func (c *Config) LogMaxSizeMB() int {
	if c.Log.MaxSizeMB > 0 {
		return c.Log.MaxSizeMB
	}
	return DefaultMaxSizeMB
}

// LogMaxBackups returns the number of rotated files to keep or the default.
func (c *Config) LogMaxBackups() int {
	if c.Log.MaxBackups > 0 {
		return c.Log.MaxBackups
	}
	return DefaultMaxBackups
}

// Validate reports settings that are present but unusable. Missing
// settings are never an error.
func (c *Config) Validate() error {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err != nil {
			return fmt.Errorf("timeout %q: %w", c.RawTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("timeout %q: must be positive", c.RawTimeout)
		}
	}
	if c.RawMaxOutput < 0 {
		return fmt.Errorf("max_output %d: must not be negative", c.RawMaxOutput)
	}
	if err := CheckLogLevel(c.LogLevel()); err != nil {
		return fmt.Errorf("log.level %q: %w", c.Log.Level, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q: want text or json", c.Log.Format)
	}
	return nil
}

// CheckLogLevel reports whether level names a supported log level.
func CheckLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return nil
	}
	return errors.New("want debug, info, warn or error")
}

// LoadResult holds the parsed config and the file it came from.
type LoadResult struct {
	Config *Config
	Path   string // empty when no file was found
}

// Load reads the config file at path. If path is empty the file is
// discovered: $PATHTRACE_CONFIG, then ./.pathtrace in dir, then
// <user config dir>/pathtrace/config.yaml. A missing file yields a
// default Config.
func Load(path, dir string) (*LoadResult, error) {
	explicit := path != ""
	if !explicit {
		path = discover(dir)
	}
	if path == "" {
		return &LoadResult{Config: &Config{}}, nil
	}

	cfg, err := Parse(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &LoadResult{Config: &Config{}}, nil
		}
		return nil, err
	}
	return &LoadResult{Config: cfg, Path: path}, nil
}

// Parse reads and validates a single config file.
func Parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// discover returns the first existing candidate config path, or "".
func discover(dir string) string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	candidates := []string{filepath.Join(dir, LocalFile)}
	if ucd, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(ucd, "pathtrace", "config.yaml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
