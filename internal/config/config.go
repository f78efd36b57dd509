// Package config loads the vidwin configuration file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/vidwin/internal/aspect"
	"github.com/1broseidon/vidwin/internal/screen"
	"github.com/1broseidon/vidwin/internal/window"
)

// Hotkeys are global key sequences in xgbutil keybind syntax ("Mod4-f").
// An empty sequence disables the binding.
type Hotkeys struct {
	Fullscreen string `yaml:"fullscreen"`
	Border     string `yaml:"border"`
	OnTop      string `yaml:"ontop"`
}

// Config holds the application configuration.
type Config struct {
	Display       string  `yaml:"display,omitempty"`
	XAuthority    string  `yaml:"xauthority,omitempty"`
	Title         string  `yaml:"title"`
	ClassName     string  `yaml:"class_name"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Aspect        string  `yaml:"aspect,omitempty"`
	Fullscreen    bool    `yaml:"fullscreen"`
	Border        bool    `yaml:"border"`
	OnTop         bool    `yaml:"ontop"`
	KeepAspect    bool    `yaml:"keep_aspect"`
	ModeSwitching bool    `yaml:"mode_switching"`
	MouseInput    bool    `yaml:"mouse_input"`
	Monitor       string  `yaml:"monitor"`
	EmbedWindow   int64   `yaml:"embed_window"`
	Adapter       int     `yaml:"adapter"`
	ScreenWidth   int     `yaml:"screen_width,omitempty"`
	ScreenHeight  int     `yaml:"screen_height,omitempty"`
	Stereo        bool    `yaml:"stereo"`
	ControlSocket bool    `yaml:"control_socket"`
	Hotkeys       Hotkeys `yaml:"hotkeys"`
	LogLevel      string  `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Title:         window.DefaultTitle,
		ClassName:     "vidwin",
		Width:         640,
		Height:        360,
		Border:        true,
		KeepAspect:    true,
		MouseInput:    true,
		Monitor:       "nearest",
		EmbedWindow:   -1,
		Adapter:       -1,
		ControlSocket: true,
		Hotkeys: Hotkeys{
			Fullscreen: "Mod4-Mod1-f",
		},
		LogLevel: "info",
	}
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates c and writes it to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}

func (c *Config) Validate() error {
	if c.Width <= 0 {
		return &ValidationError{Path: "width", Err: fmt.Errorf("width must be > 0")}
	}
	if c.Height <= 0 {
		return &ValidationError{Path: "height", Err: fmt.Errorf("height must be > 0")}
	}
	if strings.TrimSpace(c.Aspect) != "" {
		if _, err := aspect.Parse(c.Aspect); err != nil {
			return &ValidationError{Path: "aspect", Err: err}
		}
	}
	if strings.TrimSpace(c.ClassName) == "" {
		return &ValidationError{Path: "class_name", Err: fmt.Errorf("class_name is required")}
	}
	if _, err := screen.ParsePolicy(c.Monitor); err != nil {
		return &ValidationError{Path: "monitor", Err: err}
	}
	if c.EmbedWindow < -1 {
		return &ValidationError{Path: "embed_window", Err: fmt.Errorf("embed_window must be a window id or -1")}
	}
	if c.Adapter < -1 {
		return &ValidationError{Path: "adapter", Err: fmt.Errorf("adapter must be >= -1")}
	}
	if c.ScreenWidth < 0 {
		return &ValidationError{Path: "screen_width", Err: fmt.Errorf("screen_width must be >= 0")}
	}
	if c.ScreenHeight < 0 {
		return &ValidationError{Path: "screen_height", Err: fmt.Errorf("screen_height must be >= 0")}
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	for _, w := range c.validationWarnings() {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	return nil
}

func (c *Config) validationWarnings() []string {
	if c == nil {
		return nil
	}

	var warnings []string

	seen := map[string]string{}
	for _, hk := range []struct{ name, seq string }{
		{"hotkeys.fullscreen", c.Hotkeys.Fullscreen},
		{"hotkeys.border", c.Hotkeys.Border},
		{"hotkeys.ontop", c.Hotkeys.OnTop},
	} {
		seq := strings.TrimSpace(hk.seq)
		if seq == "" {
			continue
		}
		if prev, ok := seen[seq]; ok {
			warnings = append(warnings, fmt.Sprintf("%s repeats %s (%q); only one will fire", hk.name, prev, seq))
			continue
		}
		seen[seq] = hk.name
	}

	if c.EmbedWindow >= 0 && c.Fullscreen {
		warnings = append(warnings, "fullscreen is ignored for an embedded window")
	}
	if c.EmbedWindow >= 0 && c.ModeSwitching {
		warnings = append(warnings, "mode_switching is ignored for an embedded window")
	}

	return warnings
}

var logLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// SlogLevel maps log_level onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	if lvl, ok := logLevels[c.LogLevel]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// AspectRatio returns the configured source aspect, falling back to
// width / height.
func (c *Config) AspectRatio() float64 {
	if strings.TrimSpace(c.Aspect) != "" {
		if r, err := aspect.Parse(c.Aspect); err == nil {
			return r
		}
	}
	if c.Height <= 0 {
		return 0
	}
	return float64(c.Width) / float64(c.Height)
}

// WindowOptions converts the presentation keys into window options.
func (c *Config) WindowOptions() (window.Options, error) {
	policy, err := screen.ParsePolicy(c.Monitor)
	if err != nil {
		return window.Options{}, &ValidationError{Path: "monitor", Err: err}
	}
	opts := window.DefaultOptions()
	opts.Title = c.Title
	opts.ClassName = c.ClassName
	opts.Fullscreen = c.Fullscreen
	opts.Border = c.Border
	opts.OnTop = c.OnTop
	opts.KeepAspect = c.KeepAspect
	opts.MouseInput = c.MouseInput
	opts.Monitor = policy
	opts.EmbedWindow = c.EmbedWindow
	opts.Adapter = c.Adapter
	opts.ScreenWidth = c.ScreenWidth
	opts.ScreenHeight = c.ScreenHeight
	return opts, nil
}

// ConfigureFlags returns the flags for the first Configure call.
func (c *Config) ConfigureFlags() window.Flags {
	var flags window.Flags
	if c.Fullscreen {
		flags |= window.FlagFullscreen
	}
	if c.ModeSwitching {
		flags |= window.FlagModeSwitching
	}
	if c.Stereo {
		flags |= window.FlagStereo
	}
	return flags
}
