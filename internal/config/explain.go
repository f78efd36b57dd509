package config

import (
	"fmt"
	"sort"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Paths are the top-level keys (width, monitor, log_level, ...) plus
// hotkeys.fullscreen, hotkeys.border and hotkeys.ontop.
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// Paths lists every path Explain accepts, sorted.
func Paths() []string {
	out := make([]string, 0, len(fields))
	for k := range fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var fields = map[string]func(*Config) any{
	"display":        func(c *Config) any { return c.Display },
	"xauthority":     func(c *Config) any { return c.XAuthority },
	"title":          func(c *Config) any { return c.Title },
	"class_name":     func(c *Config) any { return c.ClassName },
	"width":          func(c *Config) any { return c.Width },
	"height":         func(c *Config) any { return c.Height },
	"aspect":         func(c *Config) any { return c.Aspect },
	"fullscreen":     func(c *Config) any { return c.Fullscreen },
	"border":         func(c *Config) any { return c.Border },
	"ontop":          func(c *Config) any { return c.OnTop },
	"keep_aspect":    func(c *Config) any { return c.KeepAspect },
	"mode_switching": func(c *Config) any { return c.ModeSwitching },
	"mouse_input":    func(c *Config) any { return c.MouseInput },
	"monitor":        func(c *Config) any { return c.Monitor },
	"embed_window":   func(c *Config) any { return c.EmbedWindow },
	"adapter":        func(c *Config) any { return c.Adapter },
	"screen_width":   func(c *Config) any { return c.ScreenWidth },
	"screen_height":  func(c *Config) any { return c.ScreenHeight },
	"stereo":         func(c *Config) any { return c.Stereo },
	"control_socket": func(c *Config) any { return c.ControlSocket },
	"log_level":      func(c *Config) any { return c.LogLevel },

	"hotkeys":            func(c *Config) any { return c.Hotkeys },
	"hotkeys.fullscreen": func(c *Config) any { return c.Hotkeys.Fullscreen },
	"hotkeys.border":     func(c *Config) any { return c.Hotkeys.Border },
	"hotkeys.ontop":      func(c *Config) any { return c.Hotkeys.OnTop },
}

func lookupValue(cfg *Config, path string) (any, error) {
	get, ok := fields[strings.TrimSpace(path)]
	if !ok {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	return get(cfg), nil
}

// Change is one key whose effective value differs between two configs.
type Change struct {
	Path string
	From any
	To   any
}

// Diff lists the keys that differ between a and b in path order. The
// aggregate hotkeys key is reported through its children only.
func Diff(a, b *Config) []Change {
	if a == nil || b == nil {
		return nil
	}
	var out []Change
	for _, path := range Paths() {
		if path == "hotkeys" {
			continue
		}
		get := fields[path]
		from, to := get(a), get(b)
		if from != to {
			out = append(out, Change{Path: path, From: from, To: to})
		}
	}
	return out
}
