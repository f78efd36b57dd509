package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/vidwin/internal/config"
)

var errNothingToSave = errors.New("no changes to save")

type savePhase int

const (
	saveHidden savePhase = iota
	saveReview
	saveDone
)

// SaveOverlay lists pending setting changes and writes the config once
// confirmed.
type SaveOverlay struct {
	phase   savePhase
	changes []config.Change
	scroll  int
	err     error
	savedTo string
}

// Active reports whether the overlay is visible.
func (s SaveOverlay) Active() bool { return s.phase != saveHidden }

// Show opens the review of current against original. With nothing
// changed it goes straight to the result.
func (s *SaveOverlay) Show(original, current *config.Config) {
	*s = SaveOverlay{changes: config.Diff(original, current)}
	if len(s.changes) == 0 {
		s.phase, s.err = saveDone, errNothingToSave
		return
	}
	s.phase = saveReview
}

// SaveSucceeded reports whether the last save completed without error.
func (s SaveOverlay) SaveSucceeded() bool { return s.phase == saveDone && s.err == nil }

// Update handles input while the overlay is active. Confirming writes cfg
// to path, or to the standard location when path is empty.
func (s SaveOverlay) Update(msg tea.Msg, cfg *config.Config, path string) SaveOverlay {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s
	}
	if s.phase == saveDone {
		s.phase = saveHidden
		return s
	}

	switch km.String() {
	case "esc":
		s.phase = saveHidden
	case "enter", "y":
		s.phase = saveDone
		s.err = s.write(cfg, path)
	case "up", "k":
		s.scroll = max(s.scroll-1, 0)
	case "down", "j":
		s.scroll = min(s.scroll+1, max(len(s.changes)-1, 0))
	}
	return s
}

func (s *SaveOverlay) write(cfg *config.Config, path string) error {
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := cfg.SaveTo(path); err != nil {
		return err
	}
	s.savedTo = path
	return nil
}

var (
	overlayBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
	overlayTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	fromStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	toStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// View renders the overlay centered in a width x height area.
func (s SaveOverlay) View(width, height int) string {
	var body string
	boxW := min(max(width-8, 30), 72)
	switch s.phase {
	case saveReview:
		body = s.reviewBody(boxW-6, max(height-10, 3))
	case saveDone:
		body = s.resultBody()
	default:
		return ""
	}
	box := overlayBox.Width(boxW).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (s SaveOverlay) reviewBody(innerW, rows int) string {
	lines := []string{overlayTitle.Render(fmt.Sprintf("Save Config: %d pending change(s)", len(s.changes))), ""}

	start := min(s.scroll, max(len(s.changes)-rows, 0))
	end := min(start+rows, len(s.changes))
	for _, c := range s.changes[start:end] {
		line := fmt.Sprintf("%s: %s → %s",
			c.Path, fromStyle.Render(formatValue(c.From)), toStyle.Render(formatValue(c.To)))
		lines = append(lines, lipgloss.NewStyle().MaxWidth(innerW).Render(line))
	}
	lines = append(lines, "", dimStyle.Render("enter: save  esc: cancel  j/k: scroll"))
	return strings.Join(lines, "\n")
}

func (s SaveOverlay) resultBody() string {
	var msg string
	if s.err != nil {
		msg = errStyle.Render("Error: " + s.err.Error())
	} else {
		msg = okStyle.Render("Config saved to "+s.savedTo) + "\n" +
			valueStyle.Render("Restart 'vidwin run' to apply window settings")
	}
	return msg + "\n\n" + dimStyle.Render("press any key to dismiss")
}

func formatValue(v any) string {
	if s, ok := v.(string); ok {
		if s == "" {
			return `""`
		}
		return s
	}
	return fmt.Sprint(v)
}

func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	return cfg.Clone()
}
