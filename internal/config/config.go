package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/1broseidon/wintrans/internal/engine"
)

const (
	DefaultRefreshInterval = 10 * time.Second
	DefaultMaxDepth        = 1
	DefaultSinkRetries     = engine.DefaultSinkRetries
	DefaultSinkBackoff     = engine.DefaultSinkBackoff
)

// DiscoveryConfig controls the accessibility tree walk.
type DiscoveryConfig struct {
	// MaxDepth is 1 for top-level windows only, 2 to add their direct children.
	MaxDepth int `yaml:"max_depth"`
	// ExcludeClasses hides windows by class, e.g. the terminal running wintrans.
	ExcludeClasses []string `yaml:"exclude_classes"`
}

// SinkConfig controls delivery of rendered text to the display.
type SinkConfig struct {
	Retries int           `yaml:"retries"`
	Backoff time.Duration `yaml:"backoff"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	// Level is one of: debug, info, warn, error.
	Level string `yaml:"level"`
	// File receives logs; empty means the runtime log path for interactive
	// shells and stderr for the daemon.
	File string `yaml:"file"`
}

// Config is the wintrans configuration file.
type Config struct {
	RefreshInterval time.Duration     `yaml:"refresh_interval"`
	Discovery       DiscoveryConfig   `yaml:"discovery"`
	Sink            SinkConfig        `yaml:"sink"`
	Hotkeys         map[string]string `yaml:"hotkeys"`
	Logging         LoggingConfig     `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		RefreshInterval: DefaultRefreshInterval,
		Discovery: DiscoveryConfig{
			MaxDepth:       DefaultMaxDepth,
			ExcludeClasses: []string{},
		},
		Sink: SinkConfig{
			Retries: DefaultSinkRetries,
			Backoff: DefaultSinkBackoff,
		},
		Hotkeys: map[string]string{
			engine.NavigateUp.String():      "Mod4-Shift-Up",
			engine.NavigateDown.String():    "Mod4-Shift-Down",
			engine.IncreaseOpacity.String(): "Mod4-Shift-equal",
			engine.DecreaseOpacity.String(): "Mod4-Shift-minus",
			engine.ToggleSelected.String():  "Mod4-Shift-space",
			engine.ResetAll.String():        "Mod4-Shift-r",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ValidationError points at the offending config key and, when loaded from
// a file, its position.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate performs strict validation of the configuration.
func (c *Config) Validate() error {
	if c.RefreshInterval < time.Second {
		return &ValidationError{Path: "refresh_interval", Err: fmt.Errorf("refresh_interval must be >= 1s")}
	}
	if c.Discovery.MaxDepth < 1 {
		return &ValidationError{Path: "discovery.max_depth", Err: fmt.Errorf("max_depth must be >= 1")}
	}
	for _, class := range c.Discovery.ExcludeClasses {
		if strings.TrimSpace(class) == "" {
			return &ValidationError{Path: "discovery.exclude_classes", Err: fmt.Errorf("exclude_classes contains an empty class name")}
		}
	}
	if c.Sink.Retries < 0 {
		return &ValidationError{Path: "sink.retries", Err: fmt.Errorf("retries must be >= 0")}
	}
	if c.Sink.Backoff < 0 {
		return &ValidationError{Path: "sink.backoff", Err: fmt.Errorf("backoff must be >= 0")}
	}
	for name := range c.Hotkeys {
		if _, err := engine.ParseCommand(name); err != nil {
			return &ValidationError{Path: "hotkeys." + name, Err: fmt.Errorf("unknown command %q (valid: %s)", name, strings.Join(engine.CommandNames(), ", "))}
		}
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return &ValidationError{Path: "logging.level", Err: err}
	}
	return nil
}

// SlogLevel parses Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("level must be one of: debug, info, warn, error")
	}
}

// EngineOptions translates the config into engine options.
func (c *Config) EngineOptions(logger *slog.Logger) engine.Options {
	opts := engine.Options{
		RefreshInterval: c.RefreshInterval,
		Sink: engine.PusherConfig{
			Retries: c.Sink.Retries,
			Backoff: c.Sink.Backoff,
		},
		Logger: logger,
	}
	opts.Discovery.MaxDepth = c.Discovery.MaxDepth
	opts.Discovery.ExcludeClasses = append([]string(nil), c.Discovery.ExcludeClasses...)
	return opts
}

// HotkeyBindings returns the configured command bindings, skipping commands
// whose key sequence is blank.
func (c *Config) HotkeyBindings() map[engine.Command]string {
	out := make(map[engine.Command]string, len(c.Hotkeys))
	for name, seq := range c.Hotkeys {
		seq = strings.TrimSpace(seq)
		if seq == "" {
			continue
		}
		cmd, err := engine.ParseCommand(name)
		if err != nil {
			continue
		}
		out[cmd] = seq
	}
	return out
}
