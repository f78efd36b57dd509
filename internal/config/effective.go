package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies every value set in raw over DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	set(&cfg.Display, raw.Display)
	set(&cfg.XAuthority, raw.XAuthority)
	set(&cfg.Title, raw.Title)
	set(&cfg.ClassName, raw.ClassName)
	set(&cfg.Width, raw.Width)
	set(&cfg.Height, raw.Height)
	if raw.Aspect != nil {
		cfg.Aspect = string(*raw.Aspect)
	}
	set(&cfg.Fullscreen, raw.Fullscreen)
	set(&cfg.Border, raw.Border)
	set(&cfg.OnTop, raw.OnTop)
	set(&cfg.KeepAspect, raw.KeepAspect)
	set(&cfg.ModeSwitching, raw.ModeSwitching)
	set(&cfg.MouseInput, raw.MouseInput)
	if raw.Monitor != nil {
		cfg.Monitor = string(*raw.Monitor)
	}
	set(&cfg.EmbedWindow, raw.EmbedWindow)
	set(&cfg.Adapter, raw.Adapter)
	set(&cfg.ScreenWidth, raw.ScreenWidth)
	set(&cfg.ScreenHeight, raw.ScreenHeight)
	set(&cfg.Stereo, raw.Stereo)
	set(&cfg.ControlSocket, raw.ControlSocket)
	set(&cfg.LogLevel, raw.LogLevel)

	if raw.Hotkeys != nil {
		set(&cfg.Hotkeys.Fullscreen, raw.Hotkeys.Fullscreen)
		set(&cfg.Hotkeys.Border, raw.Hotkeys.Border)
		set(&cfg.Hotkeys.OnTop, raw.Hotkeys.OnTop)
	}

	if cfg.LogLevel == "warn" {
		return nil, &ValidationError{Path: "log_level", Err: fmt.Errorf("use \"warning\" instead of \"warn\"")}
	}

	return cfg, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
