package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/wintrans/internal/engine"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.RefreshInterval != 10*time.Second {
		t.Errorf("RefreshInterval = %v, want 10s", cfg.RefreshInterval)
	}
	if cfg.Sink.Retries != 2 || cfg.Sink.Backoff != time.Second {
		t.Errorf("Sink = %+v, want 2 retries at 1s", cfg.Sink)
	}
	if cfg.Discovery.MaxDepth != 1 {
		t.Errorf("MaxDepth = %d, want 1", cfg.Discovery.MaxDepth)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Exists {
		t.Error("Exists = true for missing file")
	}
	if res.Config.RefreshInterval != DefaultRefreshInterval {
		t.Errorf("RefreshInterval = %v", res.Config.RefreshInterval)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !res.Exists || res.Config.Logging.Level != "info" {
		t.Errorf("res = %+v", res)
	}
}

func TestLoadFromPath_Overrides(t *testing.T) {
	data := strings.Join([]string{
		"refresh_interval: 30s",
		"discovery:",
		"  max_depth: 2",
		"  exclude_classes: [Alacritty, kitty]",
		"sink:",
		"  retries: 0",
		"  backoff: 250ms",
		"hotkeys:",
		"  select_all: Mod4-Shift-a",
		"  reset_all: \"\"",
		"logging:",
		"  level: debug",
		"",
	}, "\n")

	res, err := LoadFromPath(writeConfig(t, data))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.RefreshInterval != 30*time.Second {
		t.Errorf("RefreshInterval = %v, want 30s", cfg.RefreshInterval)
	}
	if cfg.Discovery.MaxDepth != 2 || len(cfg.Discovery.ExcludeClasses) != 2 {
		t.Errorf("Discovery = %+v", cfg.Discovery)
	}
	if cfg.Sink.Retries != 0 || cfg.Sink.Backoff != 250*time.Millisecond {
		t.Errorf("Sink = %+v", cfg.Sink)
	}

	bindings := cfg.HotkeyBindings()
	if bindings[engine.SelectAll] != "Mod4-Shift-a" {
		t.Errorf("select_all binding = %q", bindings[engine.SelectAll])
	}
	if _, ok := bindings[engine.ResetAll]; ok {
		t.Error("blank reset_all binding should be skipped")
	}
	if bindings[engine.NavigateUp] != "Mod4-Shift-Up" {
		t.Errorf("default navigate_up binding lost: %q", bindings[engine.NavigateUp])
	}

	level, err := cfg.Logging.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("SlogLevel() = (%v, %v), want debug", level, err)
	}

	opts := cfg.EngineOptions(nil)
	if opts.RefreshInterval != 30*time.Second || opts.Discovery.MaxDepth != 2 || opts.Sink.Backoff != 250*time.Millisecond {
		t.Errorf("EngineOptions() = %+v", opts)
	}
}

func TestLoadFromPath_UnknownKeyRejected(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "opacity: 128\n"))
	if err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestLoadFromPath_ValidationErrorHasPosition(t *testing.T) {
	path := writeConfig(t, "refresh_interval: 10s\nhotkeys:\n  teleport: Mod4-t\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "hotkeys.teleport" {
		t.Errorf("Path = %q", verr.Path)
	}
	if verr.Source.Line != 3 {
		t.Errorf("Source.Line = %d, want 3", verr.Source.Line)
	}
	if !strings.HasPrefix(err.Error(), path+":3:") {
		t.Errorf("Error() = %q, want file:line prefix", err.Error())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"refresh too fast", func(c *Config) { c.RefreshInterval = time.Millisecond }, "refresh_interval"},
		{"zero depth", func(c *Config) { c.Discovery.MaxDepth = 0 }, "discovery.max_depth"},
		{"blank class", func(c *Config) { c.Discovery.ExcludeClasses = []string{" "} }, "discovery.exclude_classes"},
		{"negative retries", func(c *Config) { c.Sink.Retries = -1 }, "sink.retries"},
		{"negative backoff", func(c *Config) { c.Sink.Backoff = -time.Second }, "sink.backoff"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Path != tt.path {
				t.Errorf("Validate() = %v, want error at %s", err, tt.path)
			}
		})
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	data, err := DefaultConfig().Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), "refresh_interval: 10s") {
		t.Errorf("marshalled config = %s", data)
	}
	res, err := LoadFromPath(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if res.Config.Sink.Backoff != time.Second {
		t.Errorf("Backoff = %v after reload", res.Config.Sink.Backoff)
	}
}
