// Package config loads the optional fiber.yaml project configuration.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/logging"
	"github.com/go-drift/fiber/pkg/scheduler"
)

// FileName is the name of the configuration file looked up by LoadOptional.
const FileName = "fiber.yaml"

// DefaultTraceSamples is the default capacity of the pass trace buffer.
const DefaultTraceSamples = 240

// Config represents the optional fiber.yaml configuration.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Engine    EngineConfig    `yaml:"engine"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// EngineConfig contains engine settings.
type EngineConfig struct {
	// Version is the engine version the project targets, or "latest".
	Version string `yaml:"version,omitempty"`
}

// SchedulerConfig contains frame scheduling settings.
type SchedulerConfig struct {
	FrameBudget  Duration `yaml:"frameBudget,omitempty"`
	MinRemaining Duration `yaml:"minRemaining,omitempty"`
	TraceSamples int      `yaml:"traceSamples,omitempty"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level       string `yaml:"level,omitempty"`
	Development bool   `yaml:"development,omitempty"`
}

// Duration is a time.Duration written as a Go duration string ("16ms").
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", value.Line, s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root           string
	ModulePath     string
	AppName        string
	EngineVersion  string
	FrameBudget    time.Duration
	MinRemaining   time.Duration
	TraceSamples   int
	LogLevel       zapcore.Level
	LogDevelopment bool
}

// LoadOptional reads fiber.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Config("config.Load", fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err))
	}
	return &cfg, nil
}

// Resolve loads fiber.yaml from dir (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	return cfg.Resolve(dir)
}

// Resolve fills defaults and validates cfg. dir is used to derive the
// application name from go.mod when none is configured.
func (cfg *Config) Resolve(dir string) (*Resolved, error) {
	const op = "config.Resolve"

	modulePath := modulePath(dir)
	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	engineVersion := strings.TrimSpace(cfg.Engine.Version)
	if engineVersion == "" || engineVersion == "latest" {
		engineVersion = core.Version
	}
	if err := validateEngineVersion(engineVersion); err != nil {
		return nil, errors.Config(op, err)
	}

	frameBudget := time.Duration(cfg.Scheduler.FrameBudget)
	if frameBudget == 0 {
		frameBudget = scheduler.DefaultFrameBudget
	}
	minRemaining := time.Duration(cfg.Scheduler.MinRemaining)
	if minRemaining == 0 {
		minRemaining = core.DefaultMinRemaining
	}
	if frameBudget < 0 || minRemaining < 0 {
		return nil, errors.Config(op, fmt.Errorf("scheduler durations must be positive"))
	}
	if minRemaining >= frameBudget {
		return nil, errors.Config(op, fmt.Errorf("scheduler.minRemaining (%v) must be below scheduler.frameBudget (%v)", minRemaining, frameBudget))
	}

	traceSamples := cfg.Scheduler.TraceSamples
	if traceSamples == 0 {
		traceSamples = DefaultTraceSamples
	}
	if traceSamples < 0 {
		return nil, errors.Config(op, fmt.Errorf("scheduler.traceSamples must be positive, got %d", traceSamples))
	}

	levelName := strings.TrimSpace(cfg.Log.Level)
	if levelName == "" {
		levelName = "info"
	}
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, errors.Config(op, err)
	}

	return &Resolved{
		Root:           dir,
		ModulePath:     modulePath,
		AppName:        appName,
		EngineVersion:  engineVersion,
		FrameBudget:    frameBudget,
		MinRemaining:   minRemaining,
		TraceSamples:   traceSamples,
		LogLevel:       level,
		LogDevelopment: cfg.Log.Development,
	}, nil
}

// RootOptions returns the core.Root options for the resolved settings.
func (r *Resolved) RootOptions() []core.Option {
	return []core.Option{core.WithMinRemaining(r.MinRemaining)}
}

// LoopOptions returns the scheduler.Loop options for the resolved settings.
func (r *Resolved) LoopOptions() []scheduler.Option {
	return []scheduler.Option{
		scheduler.WithFrameBudget(r.FrameBudget),
		scheduler.WithTraceSamples(r.TraceSamples),
	}
}

// Logger builds the zap logger for the resolved log settings.
func (r *Resolved) Logger() (*zap.Logger, error) {
	return logging.New(r.LogLevel.String(), r.LogDevelopment)
}

// validateEngineVersion checks that version is a valid semantic version
// with the same major version as the engine.
func validateEngineVersion(version string) error {
	if !semver.IsValid(version) {
		return fmt.Errorf("engine.version %q is not a valid semantic version", version)
	}
	if semver.Major(version) != semver.Major(core.Version) {
		return fmt.Errorf("engine.version %s is incompatible with engine %s", version, core.Version)
	}
	if semver.Compare(version, core.Version) > 0 {
		return fmt.Errorf("engine.version %s is newer than engine %s", version, core.Version)
	}
	return nil
}

// modulePath returns the module path declared by dir/go.mod, or "".
func modulePath(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return ""
	}
	return modfile.ModulePath(data)
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modName, _, ok := module.SplitPathVersion(modulePath); ok && modName != "" {
		parts := strings.Split(modName, "/")
		base = parts[len(parts)-1]
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "fiber_app"
	}
	return base
}
