package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/vidwin/internal/config"
	"github.com/1broseidon/vidwin/internal/ipc"
	"github.com/1broseidon/vidwin/internal/platform"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type fakeController struct {
	st  ipc.StatusData
	err error
}

func (f *fakeController) reply() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	st := f.st
	return &st, nil
}

func (f *fakeController) GetStatus() (*ipc.StatusData, error) { return f.reply() }
func (f *fakeController) ToggleFullscreen() (*ipc.StatusData, error) {
	f.st.Fullscreen = !f.st.Fullscreen
	return f.reply()
}
func (f *fakeController) ToggleBorder() (*ipc.StatusData, error) {
	f.st.Bordered = !f.st.Bordered
	return f.reply()
}
func (f *fakeController) ToggleOnTop() (*ipc.StatusData, error) {
	f.st.OnTop = !f.st.OnTop
	return f.reply()
}
func (f *fakeController) GetScreenInfo() (*ipc.StatusData, error) { return f.reply() }

func TestComputePresentation(t *testing.T) {
	cfg := config.DefaultConfig()

	p := computePresentation(cfg, 1920, 1080)
	if diff := cmp.Diff(platform.Rect{X: 640, Y: 360, Width: 640, Height: 360}, p.Windowed); diff != "" {
		t.Fatalf("windowed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(platform.Rect{Width: 1920, Height: 1080}, p.Video); diff != "" {
		t.Fatalf("video (-want +got):\n%s", diff)
	}

	cfg.Aspect = "4:3"
	p = computePresentation(cfg, 1920, 1080)
	if diff := cmp.Diff(platform.Rect{X: 240, Width: 1440, Height: 1080}, p.Video); diff != "" {
		t.Fatalf("letterboxed video (-want +got):\n%s", diff)
	}

	cfg.KeepAspect = false
	p = computePresentation(cfg, 1920, 1080)
	if p.Video != p.Screen {
		t.Fatalf("expected stretched video to fill the screen, got %+v", p.Video)
	}

	cfg.Width, cfg.Height = 4000, 3000
	p = computePresentation(cfg, 0, 0)
	if diff := cmp.Diff(platform.Rect{Width: 1920, Height: 1080}, p.Windowed); diff != "" {
		t.Fatalf("clamped window on fallback screen (-want +got):\n%s", diff)
	}
}

func TestRenderASCIIPreview(t *testing.T) {
	cfg := config.DefaultConfig()
	p := computePresentation(cfg, 1920, 1080)

	lines := renderASCIIPreview(cfg, p, 40, 12)
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n != 40 {
			t.Fatalf("line %d has %d runes, want 40", i, n)
		}
	}
	if !strings.ContainsRune(lines[0], '═') || !strings.Contains(strings.Join(lines, "\n"), "window") {
		t.Fatalf("unexpected preview:\n%s", strings.Join(lines, "\n"))
	}

	cfg.Fullscreen = true
	lines = renderASCIIPreview(cfg, p, 40, 12)
	if !strings.Contains(strings.Join(lines, "\n"), "video") {
		t.Fatalf("expected fullscreen preview to label the video area:\n%s", strings.Join(lines, "\n"))
	}

	if got := renderASCIIPreview(nil, p, 3, 2); len(got) != 2 || got[0] != "   " {
		t.Fatalf("expected blank canvas, got %q", got)
	}
}

func TestSaveOverlayReviewsChanges(t *testing.T) {
	orig := config.DefaultConfig()
	curr := orig.Clone()
	curr.Width = 800
	curr.Hotkeys.Border = "Mod4-b"

	var s SaveOverlay
	s.Show(orig, curr)
	want := []config.Change{
		{Path: "hotkeys.border", From: "", To: "Mod4-b"},
		{Path: "width", From: 640, To: 800},
	}
	if diff := cmp.Diff(want, s.changes); diff != "" {
		t.Fatalf("changes (-want +got):\n%s", diff)
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "2 pending change(s)") || !strings.Contains(view, "width") {
		t.Fatalf("review does not list changes:\n%s", view)
	}

	s = s.Update(tea.KeyMsg{Type: tea.KeyEsc}, curr, "")
	if s.Active() {
		t.Fatalf("esc should close the review")
	}
}

func TestSaveOverlayWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	orig := config.DefaultConfig()
	curr := orig.Clone()

	var s SaveOverlay
	s.Show(orig, curr)
	if s.phase != saveDone || !errors.Is(s.err, errNothingToSave) {
		t.Fatalf("expected 'no changes' result, got phase %v err %v", s.phase, s.err)
	}

	curr.OnTop = true
	s.Show(orig, curr)
	if s.phase != saveReview {
		t.Fatalf("expected preview phase, got %v", s.phase)
	}
	s = s.Update(tea.KeyMsg{Type: tea.KeyEnter}, curr, path)
	if !s.SaveSucceeded() {
		t.Fatalf("save failed: %v", s.err)
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !res.Config.OnTop {
		t.Fatalf("saved config lost ontop")
	}

	s = s.Update(keyRunes("x"), curr, path)
	if s.Active() {
		t.Fatalf("expected any key to dismiss the result")
	}
}

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestModelTabsAndLiveStatus(t *testing.T) {
	path := writeConfig(t, "width: 1280\nheight: 720\n")
	ctl := &fakeController{st: ipc.StatusData{
		Width: 1280, Height: 720, Bordered: true,
		Screen: ipc.ScreenData{Width: 2560, Height: 1440, Depth: 24},
	}}
	m := newModel(path, ctl)
	if m.cfg() == nil || m.cfg().Width != 1280 {
		t.Fatalf("config not loaded: %v", m.loadErr)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(model)

	// Init fetches status.
	msg := m.Init()()
	next, _ = m.Update(msg)
	m = next.(model)
	if m.liveTab.Status() == nil {
		t.Fatalf("expected live status after init")
	}
	if w, h := m.displayTab.previewScreen(); w != 2560 || h != 1440 {
		t.Fatalf("preview screen = %dx%d, want live 2560x1440", w, h)
	}

	next, cmd := m.Update(keyRunes("4"))
	m = next.(model)
	if m.activeTab != TabLive || cmd == nil {
		t.Fatalf("expected live tab with refresh, got tab %v", m.activeTab)
	}

	next, cmd = m.Update(keyRunes("f"))
	m = next.(model)
	if cmd == nil {
		t.Fatalf("expected toggle command")
	}
	next, _ = m.Update(cmd())
	m = next.(model)
	if !m.liveTab.Status().Fullscreen {
		t.Fatalf("expected fullscreen after toggle")
	}
	if !strings.Contains(m.View(), "fullscreen") {
		t.Fatalf("status bar does not show fullscreen")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(model)
	if m.activeTab != TabHotkeys {
		t.Fatalf("shift+tab should go back to hotkeys, got %v", m.activeTab)
	}

	if _, cmd := m.Update(keyRunes("q")); cmd == nil {
		t.Fatalf("expected quit command")
	}
}

func TestModelConfigError(t *testing.T) {
	path := writeConfig(t, "width: -1\n")
	m := newModel(path, &fakeController{})
	if m.loadErr == nil {
		t.Fatalf("expected load error")
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if !strings.Contains(next.(model).View(), "Config error") {
		t.Fatalf("expected config error in view")
	}
}

func TestHotkeysTabEditAndDisable(t *testing.T) {
	cfg := config.DefaultConfig()
	h := NewHotkeysTab(cfg)
	h, _ = h.Update(tea.WindowSizeMsg{Width: 80, Height: 20})

	h, _ = h.Update(keyRunes("x"))
	if cfg.Hotkeys.Fullscreen != "" {
		t.Fatalf("expected fullscreen hotkey cleared, got %q", cfg.Hotkeys.Fullscreen)
	}

	h, _ = h.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !h.editing {
		t.Fatalf("expected edit mode")
	}
	h.textInput.SetValue("Mod4-g")
	h, _ = h.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if h.editing || cfg.Hotkeys.Fullscreen != "Mod4-g" {
		t.Fatalf("expected Mod4-g saved, got %q (editing %v)", cfg.Hotkeys.Fullscreen, h.editing)
	}
	if !strings.Contains(h.View(), "Mod4-g") {
		t.Fatalf("view does not show new sequence")
	}
}

func TestLiveTabError(t *testing.T) {
	l := NewLiveTab(&fakeController{err: os.ErrNotExist})
	l, _ = l.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	l, cmd := l.Update(keyRunes("t"))
	l, _ = l.Update(cmd())
	if l.Status() != nil || !l.isError {
		t.Fatalf("expected error state, got %+v", l)
	}
	if !strings.Contains(l.View(), "No window is running") {
		t.Fatalf("expected not-running hint")
	}
	l, _ = l.Update(clearStatusMsg{})
	if l.statusText != "" {
		t.Fatalf("status not cleared")
	}
}

func TestFormValidators(t *testing.T) {
	if positiveInt("0") == nil || positiveInt("12") != nil {
		t.Fatalf("positiveInt")
	}
	if optionalAspect("") != nil || optionalAspect("16:9") != nil || optionalAspect("wide") == nil {
		t.Fatalf("optionalAspect")
	}
	if minusOneOrMore("-1") != nil || minusOneOrMore("0x2a00007") != nil || minusOneOrMore("-2") == nil {
		t.Fatalf("minusOneOrMore")
	}
}
