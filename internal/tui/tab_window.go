package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/vidwin/internal/aspect"
	"github.com/1broseidon/vidwin/internal/config"
)

// WindowTab edits the window presentation settings.
type WindowTab struct {
	cfg *config.Config

	width  int
	height int

	editing bool
	form    *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fTitle      string
	fClassName  string
	fWidth      string
	fHeight     string
	fAspect     string
	fKeepAspect bool
	fBorder     bool
	fOnTop      bool
	fFullscreen bool
	fMouseInput bool
	fStereo     bool
}

// NewWindowTab creates a WindowTab from the loaded config.
func NewWindowTab(cfg *config.Config) WindowTab {
	return WindowTab{cfg: cfg}
}

// Update implements tea.Model.
func (w WindowTab) Update(msg tea.Msg) (WindowTab, tea.Cmd) {
	if w.editing {
		return w.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" && w.cfg != nil {
			w.startEditing()
			return w, w.form.Init()
		}
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	}
	return w, nil
}

func (w WindowTab) updateEditing(msg tea.Msg) (WindowTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			w.editing = false
			w.form = nil
			return w, nil
		}
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}
	if w.form.State == huh.StateCompleted {
		w.applyForm()
		w.editing = false
		w.form = nil
		return w, nil
	}
	return w, cmd
}

func (w *WindowTab) startEditing() {
	cfg := w.cfg
	w.fTitle = cfg.Title
	w.fClassName = cfg.ClassName
	w.fWidth = strconv.Itoa(cfg.Width)
	w.fHeight = strconv.Itoa(cfg.Height)
	w.fAspect = cfg.Aspect
	w.fKeepAspect = cfg.KeepAspect
	w.fBorder = cfg.Border
	w.fOnTop = cfg.OnTop
	w.fFullscreen = cfg.Fullscreen
	w.fMouseInput = cfg.MouseInput
	w.fStereo = cfg.Stereo

	fw := max(w.width-4, 40)

	w.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Description("Window title; empty uses the default").
				Value(&w.fTitle),
			huh.NewInput().
				Key("class_name").
				Title("Class Name").
				Description("WM_CLASS used for window manager rules").
				Validate(requireNonEmpty).
				Value(&w.fClassName),
			huh.NewInput().
				Key("width").
				Title("Width").
				Description("Initial video width in pixels").
				Validate(positiveInt).
				Value(&w.fWidth),
			huh.NewInput().
				Key("height").
				Title("Height").
				Description("Initial video height in pixels").
				Validate(positiveInt).
				Value(&w.fHeight),
			huh.NewInput().
				Key("aspect").
				Title("Aspect").
				Description("W:H or decimal; empty derives from width and height").
				Validate(optionalAspect).
				Value(&w.fAspect),
		),
		huh.NewGroup(
			huh.NewConfirm().Key("keep_aspect").Title("Keep Aspect").Value(&w.fKeepAspect),
			huh.NewConfirm().Key("border").Title("Border").Value(&w.fBorder),
			huh.NewConfirm().Key("ontop").Title("Stay On Top").Value(&w.fOnTop),
			huh.NewConfirm().Key("fullscreen").Title("Start Fullscreen").Value(&w.fFullscreen),
			huh.NewConfirm().Key("mouse_input").Title("Mouse Input").Value(&w.fMouseInput),
			huh.NewConfirm().Key("stereo").Title("Stereo Surface").Value(&w.fStereo),
		),
	).WithWidth(fw).WithShowHelp(true).WithShowErrors(true)

	w.editing = true
}

func (w *WindowTab) applyForm() {
	if w.cfg == nil {
		return
	}
	w.cfg.Title = strings.TrimSpace(w.fTitle)
	if v := strings.TrimSpace(w.fClassName); v != "" {
		w.cfg.ClassName = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(w.fWidth)); err == nil && v > 0 {
		w.cfg.Width = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(w.fHeight)); err == nil && v > 0 {
		w.cfg.Height = v
	}
	if optionalAspect(w.fAspect) == nil {
		w.cfg.Aspect = strings.TrimSpace(w.fAspect)
	}
	w.cfg.KeepAspect = w.fKeepAspect
	w.cfg.Border = w.fBorder
	w.cfg.OnTop = w.fOnTop
	w.cfg.Fullscreen = w.fFullscreen
	w.cfg.MouseInput = w.fMouseInput
	w.cfg.Stereo = w.fStereo
}

// View implements tea.Model.
func (w WindowTab) View() string {
	if w.editing && w.form != nil {
		return viewForm("Editing Window Settings", w.form, w.width, w.height)
	}
	cfg := w.cfg
	if cfg == nil {
		return noConfig(w.width, w.height)
	}

	ratio := cfg.AspectRatio()
	lines := []string{
		"",
		row("Title", displayOrDefault(cfg.Title, "(default)")),
		row("Class Name", cfg.ClassName),
		"",
		row("Size", fmt.Sprintf("%d×%d", cfg.Width, cfg.Height)),
		row("Aspect", fmt.Sprintf("%s (%.3f)", displayOrDefault(cfg.Aspect, "from size"), ratio)),
		row("Keep Aspect", onOff(cfg.KeepAspect)),
		"",
		row("Border", onOff(cfg.Border)),
		row("Stay On Top", onOff(cfg.OnTop)),
		row("Start Fullscreen", onOff(cfg.Fullscreen)),
		row("Mouse Input", onOff(cfg.MouseInput)),
		row("Stereo Surface", onOff(cfg.Stereo)),
		"",
		dimStyle.Render("  Press 'e' to edit settings"),
	}

	return lipgloss.NewStyle().
		Width(w.width).
		Height(w.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func viewForm(title string, form *huh.Form, width, height int) string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render(title) +
		dimStyle.Render("  (esc to cancel)")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(header + "\n\n" + form.View())
}

func noConfig(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Foreground(lipgloss.Color("241")).
		Align(lipgloss.Center, lipgloss.Center).
		Render("No config loaded")
}

func requireNonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func positiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a number > 0")
	}
	return nil
}

func optionalAspect(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := aspect.Parse(s)
	return err
}
