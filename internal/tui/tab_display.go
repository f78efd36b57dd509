package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/vidwin/internal/config"
	"github.com/1broseidon/vidwin/internal/screen"
)

// DisplayTab edits screen selection and shows where the window will land.
type DisplayTab struct {
	cfg *config.Config

	width  int
	height int

	// Live screen size from a running window; zero when unknown.
	liveW, liveH int

	editing bool
	form    *huh.Form

	fMonitor       string
	fModeSwitching bool
	fEmbedWindow   string
	fAdapter       string
	fScreenWidth   string
	fScreenHeight  string
	fDisplay       string
	fXAuthority    string
	fControlSocket bool
	fLogLevel      string
}

// NewDisplayTab creates a DisplayTab from the loaded config.
func NewDisplayTab(cfg *config.Config) DisplayTab {
	return DisplayTab{cfg: cfg}
}

// SetLiveScreen records the screen size reported by a running window.
func (d *DisplayTab) SetLiveScreen(width, height int) {
	d.liveW, d.liveH = width, height
}

// Update implements tea.Model.
func (d DisplayTab) Update(msg tea.Msg) (DisplayTab, tea.Cmd) {
	if d.editing {
		return d.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" && d.cfg != nil {
			d.startEditing()
			return d, d.form.Init()
		}
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
	}
	return d, nil
}

func (d DisplayTab) updateEditing(msg tea.Msg) (DisplayTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			d.editing = false
			d.form = nil
			return d, nil
		}
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}
	if d.form.State == huh.StateCompleted {
		d.applyForm()
		d.editing = false
		d.form = nil
		return d, nil
	}
	return d, cmd
}

func (d *DisplayTab) startEditing() {
	cfg := d.cfg
	d.fMonitor = cfg.Monitor
	d.fModeSwitching = cfg.ModeSwitching
	d.fEmbedWindow = strconv.FormatInt(cfg.EmbedWindow, 10)
	d.fAdapter = strconv.Itoa(cfg.Adapter)
	d.fScreenWidth = strconv.Itoa(cfg.ScreenWidth)
	d.fScreenHeight = strconv.Itoa(cfg.ScreenHeight)
	d.fDisplay = cfg.Display
	d.fXAuthority = cfg.XAuthority
	d.fControlSocket = cfg.ControlSocket
	d.fLogLevel = cfg.LogLevel

	fw := max(d.width-4, 40)

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("monitor").
				Title("Monitor").
				Description("nearest, virtual, or a monitor index").
				Validate(func(s string) error {
					_, err := screen.ParsePolicy(s)
					return err
				}).
				Value(&d.fMonitor),
			huh.NewConfirm().
				Key("mode_switching").
				Title("Mode Switching").
				Description("Change the display mode to the video size when fullscreen").
				Value(&d.fModeSwitching),
			huh.NewInput().
				Key("screen_width").
				Title("Screen Width").
				Description("0 detects the screen").
				Validate(nonNegativeInt).
				Value(&d.fScreenWidth),
			huh.NewInput().
				Key("screen_height").
				Title("Screen Height").
				Description("0 detects the screen").
				Validate(nonNegativeInt).
				Value(&d.fScreenHeight),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("embed_window").
				Title("Embed Window").
				Description("Foreign window id to draw into; -1 for a top-level window").
				Validate(minusOneOrMore).
				Value(&d.fEmbedWindow),
			huh.NewInput().
				Key("adapter").
				Title("Adapter").
				Description("X screen for a dedicated drawing context; -1 for none").
				Validate(minusOneOrMore).
				Value(&d.fAdapter),
			huh.NewInput().
				Key("display").
				Title("Display").
				Description("X display; empty uses $DISPLAY").
				Value(&d.fDisplay),
			huh.NewInput().
				Key("xauthority").
				Title("XAuthority").
				Value(&d.fXAuthority),
			huh.NewConfirm().
				Key("control_socket").
				Title("Control Socket").
				Value(&d.fControlSocket),
			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(huh.NewOptions("debug", "info", "warning", "error")...).
				Value(&d.fLogLevel),
		),
	).WithWidth(fw).WithShowHelp(true).WithShowErrors(true)

	d.editing = true
}

func (d *DisplayTab) applyForm() {
	if d.cfg == nil {
		return
	}
	if _, err := screen.ParsePolicy(d.fMonitor); err == nil {
		d.cfg.Monitor = strings.TrimSpace(d.fMonitor)
		if d.cfg.Monitor == "" {
			d.cfg.Monitor = "nearest"
		}
	}
	d.cfg.ModeSwitching = d.fModeSwitching
	if v, err := strconv.ParseInt(strings.TrimSpace(d.fEmbedWindow), 0, 64); err == nil && v >= -1 {
		d.cfg.EmbedWindow = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(d.fAdapter)); err == nil && v >= -1 {
		d.cfg.Adapter = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(d.fScreenWidth)); err == nil && v >= 0 {
		d.cfg.ScreenWidth = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(d.fScreenHeight)); err == nil && v >= 0 {
		d.cfg.ScreenHeight = v
	}
	d.cfg.Display = strings.TrimSpace(d.fDisplay)
	d.cfg.XAuthority = strings.TrimSpace(d.fXAuthority)
	d.cfg.ControlSocket = d.fControlSocket
	if d.fLogLevel != "" {
		d.cfg.LogLevel = d.fLogLevel
	}
}

// previewScreen picks the screen size for the preview: a running window
// first, then the configured override.
func (d DisplayTab) previewScreen() (int, int) {
	if d.liveW > 0 && d.liveH > 0 {
		return d.liveW, d.liveH
	}
	if d.cfg != nil && d.cfg.ScreenWidth > 0 && d.cfg.ScreenHeight > 0 {
		return d.cfg.ScreenWidth, d.cfg.ScreenHeight
	}
	return fallbackScreenWidth, fallbackScreenHeight
}

// View implements tea.Model.
func (d DisplayTab) View() string {
	if d.editing && d.form != nil {
		return viewForm("Editing Display Settings", d.form, d.width, d.height)
	}
	cfg := d.cfg
	if cfg == nil {
		return noConfig(d.width, d.height)
	}

	embed := "top-level"
	if cfg.EmbedWindow >= 0 {
		embed = fmt.Sprintf("0x%x", cfg.EmbedWindow)
	}
	adapter := "none"
	if cfg.Adapter >= 0 {
		adapter = strconv.Itoa(cfg.Adapter)
	}
	screenSize := "detect"
	if cfg.ScreenWidth > 0 || cfg.ScreenHeight > 0 {
		screenSize = fmt.Sprintf("%d×%d", cfg.ScreenWidth, cfg.ScreenHeight)
	}

	lines := []string{
		"",
		row("Monitor", cfg.Monitor),
		row("Mode Switching", onOff(cfg.ModeSwitching)),
		row("Screen Size", screenSize),
		"",
		row("Embed Window", embed),
		row("Adapter", adapter),
		row("Display", displayOrDefault(cfg.Display, "$DISPLAY")),
		row("Control Socket", onOff(cfg.ControlSocket)),
		row("Log Level", cfg.LogLevel),
		"",
		dimStyle.Render("  Press 'e' to edit settings"),
	}

	leftW := max(d.width/2, 40)
	left := lipgloss.NewStyle().
		Width(leftW).
		Height(d.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))

	right := d.renderPreview(max(d.width-leftW, 10))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (d DisplayTab) renderPreview(width int) string {
	sw, sh := d.previewScreen()
	p := computePresentation(d.cfg, sw, sh)

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(" Preview")
	summary := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Render(" " + summarizePresentation(d.cfg, p))

	previewH := max(d.height-5, 5)
	asciiW := max(width-2, 5)
	lines := renderASCIIPreview(d.cfg, p, asciiW, previewH)
	block := lipgloss.NewStyle().
		Foreground(lipgloss.Color("247")).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, title, summary, "", block)
}

func nonNegativeInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return fmt.Errorf("must be a number >= 0")
	}
	return nil
}

func minusOneOrMore(s string) error {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
	if err != nil || v < -1 {
		return fmt.Errorf("must be -1 or a non-negative number")
	}
	return nil
}
