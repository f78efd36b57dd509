package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/vidwin/internal/ipc"
)

// Tab identifies a TUI tab.
type Tab int

const (
	TabWindow Tab = iota
	TabDisplay
	TabHotkeys
	TabLive
	tabCount
)

var tabNames = [tabCount]string{"Window", "Display", "Hotkeys", "Live"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "?"
	}
	return tabNames[t]
}

var (
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("236")).
			Padding(0, 2)
	selectedTabStyle = tabStyle.
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("62"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(22).
			Align(lipgloss.Right).
			PaddingRight(2)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderTabBar renders "1:Window 2:Display ..." with active highlighted.
func renderTabBar(active Tab, width int) string {
	cells := make([]string, 0, 2*tabCount)
	for t := range tabCount {
		if t > 0 {
			cells = append(cells, " ")
		}
		style := tabStyle
		if t == active {
			style = selectedTabStyle
		}
		cells = append(cells, style.Render(fmt.Sprintf("%d:%s", t+1, t)))
	}
	return lipgloss.NewStyle().Width(width).MarginBottom(1).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
}

// renderStatusBar shows whether a window is running and its flags.
func renderStatusBar(st *ipc.StatusData, width int) string {
	var status string
	if st != nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{dot + " window running", fmt.Sprintf("%d×%d", st.Width, st.Height)}
		parts = append(parts, flagSummary(st)...)
		status = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		status = dot + " vidwin not running"
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(status)
}

func flagSummary(st *ipc.StatusData) []string {
	var out []string
	if st.Fullscreen {
		out = append(out, "fullscreen")
	}
	if !st.Bordered {
		out = append(out, "borderless")
	}
	if st.OnTop {
		out = append(out, "ontop")
	}
	return out
}

// renderHelpBar renders the bottom help/keybinding bar.
func renderHelpBar(width int) string {
	help := "tab/shift-tab: switch tabs  1-4: jump to tab  ctrl-s: save  q/ctrl-c: quit"
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
