package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/vidwin/internal/config"
)

type hotkeyAction int

const (
	hotkeyFullscreen hotkeyAction = iota
	hotkeyBorder
	hotkeyOnTop
)

var hotkeyActions = []struct {
	action hotkeyAction
	name   string
	desc   string
}{
	{hotkeyFullscreen, "fullscreen", "toggle fullscreen"},
	{hotkeyBorder, "border", "toggle window border"},
	{hotkeyOnTop, "ontop", "toggle stay-on-top"},
}

// hotkeyItem is a list item for one global binding.
type hotkeyItem struct {
	action hotkeyAction
	name   string
	desc   string
	seq    string
}

func (i hotkeyItem) Title() string {
	if i.seq == "" {
		return dimStyle.Render("○") + " " + i.name
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("✓") + " " + i.name
}

func (i hotkeyItem) Description() string {
	if i.seq == "" {
		return i.desc + " | disabled"
	}
	return i.desc + " | " + i.seq
}

func (i hotkeyItem) FilterValue() string { return i.name }

// HotkeysTab edits the global key bindings.
type HotkeysTab struct {
	list   list.Model
	cfg    *config.Config
	width  int
	height int

	editing   bool
	textInput textinput.Model
}

// NewHotkeysTab creates a HotkeysTab from the loaded config.
func NewHotkeysTab(cfg *config.Config) HotkeysTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(buildHotkeyItems(cfg), delegate, 0, 0)
	l.Title = "Global Hotkeys"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	ti := textinput.New()
	ti.Placeholder = "e.g. Mod4-f, Control-Mod1-b"
	ti.CharLimit = 64

	return HotkeysTab{list: l, cfg: cfg, textInput: ti}
}

// Update handles messages for the hotkeys tab.
func (h HotkeysTab) Update(msg tea.Msg) (HotkeysTab, tea.Cmd) {
	if h.editing {
		return h.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width = msg.Width
		h.height = msg.Height
		h.list.SetSize(h.listWidth(), h.height)
		return h, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "e":
			if item, ok := h.list.SelectedItem().(hotkeyItem); ok && h.cfg != nil {
				h.editing = true
				h.textInput.SetValue(item.seq)
				h.textInput.CursorEnd()
				h.textInput.Focus()
				return h, textinput.Blink
			}
			return h, nil
		case "x", "delete":
			if item, ok := h.list.SelectedItem().(hotkeyItem); ok {
				h.setSequence(item.action, "")
				h.list.SetItems(buildHotkeyItems(h.cfg))
			}
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.list, cmd = h.list.Update(msg)
	return h, cmd
}

func (h HotkeysTab) updateEditing(msg tea.Msg) (HotkeysTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if item, ok := h.list.SelectedItem().(hotkeyItem); ok {
				h.setSequence(item.action, strings.TrimSpace(h.textInput.Value()))
				h.list.SetItems(buildHotkeyItems(h.cfg))
			}
			h.editing = false
			h.textInput.Blur()
			return h, nil
		case "esc":
			h.editing = false
			h.textInput.Blur()
			return h, nil
		}
	case tea.WindowSizeMsg:
		h.width = msg.Width
		h.height = msg.Height
		return h, nil
	}

	var cmd tea.Cmd
	h.textInput, cmd = h.textInput.Update(msg)
	return h, cmd
}

func (h HotkeysTab) listWidth() int {
	return max(h.width*2/5, 20)
}

func (h *HotkeysTab) setSequence(action hotkeyAction, seq string) {
	if h.cfg == nil {
		return
	}
	switch action {
	case hotkeyFullscreen:
		h.cfg.Hotkeys.Fullscreen = seq
	case hotkeyBorder:
		h.cfg.Hotkeys.Border = seq
	case hotkeyOnTop:
		h.cfg.Hotkeys.OnTop = seq
	}
}

// View implements tea.Model.
func (h HotkeysTab) View() string {
	if h.width == 0 || h.height == 0 {
		return ""
	}

	leftW := h.listWidth()
	rightW := max(h.width-leftW, 10)

	var leftContent string
	if h.editing {
		prompt := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Render("Key sequence:") + "\n" +
			h.textInput.View() + "\n" +
			dimStyle.Render("enter: confirm  esc: cancel  empty: disable")
		block := lipgloss.NewStyle().Padding(0, 1).Width(leftW).Render(prompt)
		h.list.SetSize(leftW, max(h.height-lipgloss.Height(block), 1))
		leftContent = block + "\n" + h.list.View()
	} else {
		leftContent = h.list.View()
	}

	left := lipgloss.NewStyle().
		Width(leftW).
		Height(h.height).
		Render(leftContent)

	var right string
	if item, ok := h.list.SelectedItem().(hotkeyItem); ok {
		right = renderHotkeyDetail(item, rightW, h.height)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func buildHotkeyItems(cfg *config.Config) []list.Item {
	if cfg == nil {
		return nil
	}
	seqs := map[hotkeyAction]string{
		hotkeyFullscreen: cfg.Hotkeys.Fullscreen,
		hotkeyBorder:     cfg.Hotkeys.Border,
		hotkeyOnTop:      cfg.Hotkeys.OnTop,
	}
	items := make([]list.Item, 0, len(hotkeyActions))
	for _, a := range hotkeyActions {
		items = append(items, hotkeyItem{action: a.action, name: a.name, desc: a.desc, seq: seqs[a.action]})
	}
	return items
}

func renderHotkeyDetail(item hotkeyItem, width, height int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render(item.name))
	b.WriteString("\n\n")
	b.WriteString(row("sequence:", displayOrDefault(item.seq, "(disabled)")))
	b.WriteString("\n")
	b.WriteString(row("action:", item.desc))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Sequences use modifier names joined by '-':"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Shift, Lock, Control, Mod1 (Alt) ... Mod5, then a keysym."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Render("enter/e: edit  x: disable"))

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(lipgloss.Color("236")).
		Render(b.String())
}
