package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/vidwin/internal/screen"
	"github.com/1broseidon/vidwin/internal/window"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 360 {
		t.Fatalf("expected 640x360 default, got %dx%d", cfg.Width, cfg.Height)
	}
	if !cfg.Border || !cfg.KeepAspect || !cfg.MouseInput || !cfg.ControlSocket {
		t.Fatalf("expected border, keep_aspect, mouse_input and control_socket on by default: %+v", cfg)
	}
	if cfg.EmbedWindow != -1 || cfg.Adapter != -1 {
		t.Fatalf("expected embed_window and adapter -1, got %d/%d", cfg.EmbedWindow, cfg.Adapter)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), res.Config); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), res.Config); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
}

func TestLoadFromPath_AllKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		`display: ":1"`,
		`xauthority: "/tmp/test-xauth"`,
		`title: movie`,
		`class_name: player`,
		`width: 1280`,
		`height: 720`,
		`aspect: 2.39`,
		`fullscreen: true`,
		`border: false`,
		`ontop: true`,
		`keep_aspect: false`,
		`mode_switching: true`,
		`mouse_input: false`,
		`monitor: 1`,
		`embed_window: -1`,
		`adapter: 0`,
		`screen_width: 1920`,
		`screen_height: 1080`,
		`stereo: true`,
		`control_socket: false`,
		`hotkeys:`,
		`  fullscreen: Mod4-f`,
		`  border: Mod4-b`,
		`  ontop: ""`,
		`log_level: debug`,
		``,
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := &Config{
		Display:       ":1",
		XAuthority:    "/tmp/test-xauth",
		Title:         "movie",
		ClassName:     "player",
		Width:         1280,
		Height:        720,
		Aspect:        "2.39",
		Fullscreen:    true,
		OnTop:         true,
		ModeSwitching: true,
		Monitor:       "1",
		EmbedWindow:   -1,
		Adapter:       0,
		ScreenWidth:   1920,
		ScreenHeight:  1080,
		Stereo:        true,
		Hotkeys:       Hotkeys{Fullscreen: "Mod4-f", Border: "Mod4-b"},
		LogLevel:      "debug",
	}
	if diff := cmp.Diff(want, res.Config); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}

	val, src, err := Explain(res, "display")
	if err != nil {
		t.Fatalf("explain display: %v", err)
	}
	if val != ":1" {
		t.Fatalf("expected explain display :1, got %#v", val)
	}
	if src.Kind != SourceFile || src.Line != 1 {
		t.Fatalf("expected display source file line 1, got %#v", src)
	}

	_, src, err = Explain(res, "hotkeys.border")
	if err != nil {
		t.Fatalf("explain hotkeys.border: %v", err)
	}
	if src.Kind != SourceFile || src.Line != 23 {
		t.Fatalf("expected hotkeys.border from line 23, got %#v", src)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(configD, "10-base.yaml"), "width: 800\ntitle: base\n")
	writeFile(t, filepath.Join(configD, "20-override.yaml"), "width: 1024\nhotkeys:\n  border: Mod4-b\n")
	writeFile(t, filepath.Join(configD, "README"), "not yaml")

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"include:",
		"  - config.d",
		"width: 1280",
		"hotkeys:",
		"  ontop: Mod4-t",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Width != 1280 {
		t.Fatalf("expected width to be 1280, got %d", res.Config.Width)
	}
	if res.Config.Title != "base" {
		t.Fatalf("expected title from include, got %q", res.Config.Title)
	}
	want := Hotkeys{Fullscreen: DefaultConfig().Hotkeys.Fullscreen, Border: "Mod4-b", OnTop: "Mod4-t"}
	if diff := cmp.Diff(want, res.Config.Hotkeys); diff != "" {
		t.Fatalf("hotkeys (-want +got):\n%s", diff)
	}
	if len(res.Files) != 3 || res.Files[2] != mustCanonical(t, path) {
		t.Fatalf("expected includes then main file, got %v", res.Files)
	}

	_, src, err := Explain(res, "title")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.HasSuffix(src.File, "10-base.yaml") {
		t.Fatalf("expected title source 10-base.yaml, got %#v", src)
	}
}

func mustCanonical(t *testing.T, path string) string {
	t.Helper()
	p, err := canonicalPath(path)
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	return p
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), mustCanonical(t, path)+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	tests := []struct {
		name string
		data string
		path string
	}{
		{"negative width", "title: x\nwidth: -5\n", "width"},
		{"bad monitor", "monitor: left\n", "monitor"},
		{"negative monitor", "monitor: -2\n", "monitor"},
		{"bad aspect", "aspect: wide\n", "aspect"},
		{"bad log level", "log_level: verbose\n", "log_level"},
		{"bad embed", "embed_window: -3\n", "embed_window"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeFile(t, path, tt.data)

			_, err := LoadFromPath(path)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
			if verr.Source.Kind != SourceFile || verr.Source.Line == 0 {
				t.Fatalf("expected file source, got %#v", verr.Source)
			}
			if !strings.HasPrefix(err.Error(), verr.Source.File+":") {
				t.Fatalf("expected file:line:col prefix, got %v", err)
			}
		})
	}
}

func TestExplain_DefaultsAndUnknownPath(t *testing.T) {
	res := &LoadResult{Config: DefaultConfig(), Sources: map[string]Source{}}

	val, src, err := Explain(res, "keep_aspect")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != true || src.Kind != SourceDefault {
		t.Fatalf("expected default true, got %#v from %#v", val, src)
	}
	if _, _, err := Explain(res, "layouts.grid"); err == nil {
		t.Fatalf("expected error for unknown path")
	}
	if _, _, err := Explain(nil, "width"); err == nil {
		t.Fatalf("expected error without a config")
	}
	for _, p := range Paths() {
		if _, _, err := Explain(res, p); err != nil {
			t.Errorf("Explain(%q): %v", p, err)
		}
	}
}

func TestWindowOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Title = "clip"
	cfg.Monitor = "virtual"
	cfg.Border = false
	cfg.EmbedWindow = 0x2a00007
	cfg.ScreenWidth = 1280

	opts, err := cfg.WindowOptions()
	if err != nil {
		t.Fatalf("WindowOptions: %v", err)
	}
	want := window.DefaultOptions()
	want.Title = "clip"
	want.Monitor = screen.Virtual()
	want.Border = false
	want.EmbedWindow = 0x2a00007
	want.ScreenWidth = 1280
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Fatalf("options (-want +got):\n%s", diff)
	}

	cfg.Monitor = "sideways"
	if _, err := cfg.WindowOptions(); err == nil {
		t.Fatalf("expected error for bad monitor")
	}
}

func TestConfigureFlagsAndAspect(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ConfigureFlags() != 0 {
		t.Fatalf("expected no flags by default, got %v", cfg.ConfigureFlags())
	}
	cfg.Fullscreen, cfg.ModeSwitching, cfg.Stereo = true, true, true
	want := window.FlagFullscreen | window.FlagModeSwitching | window.FlagStereo
	if got := cfg.ConfigureFlags(); got != want {
		t.Fatalf("flags = %v, want %v", got, want)
	}

	if got := cfg.AspectRatio(); got != 640.0/360.0 {
		t.Fatalf("derived aspect = %v", got)
	}
	cfg.Aspect = "4:3"
	if got := cfg.AspectRatio(); got != 4.0/3.0 {
		t.Fatalf("explicit aspect = %v", got)
	}
}

func TestValidationWarnings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hotkeys = Hotkeys{Fullscreen: "Mod4-f", Border: "Mod4-f"}
	cfg.EmbedWindow = 5
	cfg.Fullscreen = true

	warnings := cfg.validationWarnings()
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "hotkeys.border") {
		t.Fatalf("expected duplicate hotkey warning, got %q", warnings[0])
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Width = 1920
	cfg.Height = 800
	cfg.Aspect = "2.4"
	cfg.Monitor = "2"
	cfg.OnTop = true

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff(cfg, res.Config); diff != "" {
		t.Fatalf("config (-saved +loaded):\n%s", diff)
	}

	cfg.Width = 0
	if err := cfg.SaveTo(path); err == nil {
		t.Fatalf("expected invalid config to be refused")
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := DefaultConfig()
	for level, want := range logLevels {
		cfg.LogLevel = level
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("%s: got %v, want %v", level, got, want)
		}
	}
}

func TestDiff(t *testing.T) {
	a := DefaultConfig()
	b := a.Clone()
	if changes := Diff(a, b); len(changes) != 0 {
		t.Fatalf("expected no changes, got %+v", changes)
	}

	b.Monitor = "virtual"
	b.Hotkeys.Fullscreen = ""
	b.Stereo = true
	want := []Change{
		{Path: "hotkeys.fullscreen", From: "Mod4-Mod1-f", To: ""},
		{Path: "monitor", From: "nearest", To: "virtual"},
		{Path: "stereo", From: false, To: true},
	}
	if diff := cmp.Diff(want, Diff(a, b)); diff != "" {
		t.Fatalf("changes (-want +got):\n%s", diff)
	}
	if Diff(nil, b) != nil {
		t.Fatalf("nil config should produce no changes")
	}
}
