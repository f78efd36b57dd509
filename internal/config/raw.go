package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// Scalar accepts any YAML scalar as its literal text, so "monitor: 1" and
// "aspect: 1.85" decode the same as their quoted forms.
type Scalar string

func (s *Scalar) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected a scalar value")
	}
	*s = Scalar(value.Value)
	return nil
}

type RawHotkeys struct {
	Fullscreen *string `yaml:"fullscreen"`
	Border     *string `yaml:"border"`
	OnTop      *string `yaml:"ontop"`
}

type RawConfig struct {
	Include       IncludeList `yaml:"include"`
	Display       *string     `yaml:"display"`
	XAuthority    *string     `yaml:"xauthority"`
	Title         *string     `yaml:"title"`
	ClassName     *string     `yaml:"class_name"`
	Width         *int        `yaml:"width"`
	Height        *int        `yaml:"height"`
	Aspect        *Scalar     `yaml:"aspect"`
	Fullscreen    *bool       `yaml:"fullscreen"`
	Border        *bool       `yaml:"border"`
	OnTop         *bool       `yaml:"ontop"`
	KeepAspect    *bool       `yaml:"keep_aspect"`
	ModeSwitching *bool       `yaml:"mode_switching"`
	MouseInput    *bool       `yaml:"mouse_input"`
	Monitor       *Scalar     `yaml:"monitor"`
	EmbedWindow   *int64      `yaml:"embed_window"`
	Adapter       *int        `yaml:"adapter"`
	ScreenWidth   *int        `yaml:"screen_width"`
	ScreenHeight  *int        `yaml:"screen_height"`
	Stereo        *bool       `yaml:"stereo"`
	ControlSocket *bool       `yaml:"control_socket"`
	Hotkeys       *RawHotkeys `yaml:"hotkeys"`
	LogLevel      *string     `yaml:"log_level"`
}

// merge returns c with every field set in overlay replacing its own.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	pick(&out.Display, overlay.Display)
	pick(&out.XAuthority, overlay.XAuthority)
	pick(&out.Title, overlay.Title)
	pick(&out.ClassName, overlay.ClassName)
	pick(&out.Width, overlay.Width)
	pick(&out.Height, overlay.Height)
	pick(&out.Aspect, overlay.Aspect)
	pick(&out.Fullscreen, overlay.Fullscreen)
	pick(&out.Border, overlay.Border)
	pick(&out.OnTop, overlay.OnTop)
	pick(&out.KeepAspect, overlay.KeepAspect)
	pick(&out.ModeSwitching, overlay.ModeSwitching)
	pick(&out.MouseInput, overlay.MouseInput)
	pick(&out.Monitor, overlay.Monitor)
	pick(&out.EmbedWindow, overlay.EmbedWindow)
	pick(&out.Adapter, overlay.Adapter)
	pick(&out.ScreenWidth, overlay.ScreenWidth)
	pick(&out.ScreenHeight, overlay.ScreenHeight)
	pick(&out.Stereo, overlay.Stereo)
	pick(&out.ControlSocket, overlay.ControlSocket)
	pick(&out.LogLevel, overlay.LogLevel)

	if overlay.Hotkeys != nil {
		merged := RawHotkeys{}
		if out.Hotkeys != nil {
			merged = *out.Hotkeys
		}
		pick(&merged.Fullscreen, overlay.Hotkeys.Fullscreen)
		pick(&merged.Border, overlay.Hotkeys.Border)
		pick(&merged.OnTop, overlay.Hotkeys.OnTop)
		out.Hotkeys = &merged
	}

	return out
}

func pick[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}
