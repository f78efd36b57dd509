package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/vidwin/internal/ipc"
)

// Controller is the control-socket surface of a running window.
type Controller interface {
	GetStatus() (*ipc.StatusData, error)
	ToggleFullscreen() (*ipc.StatusData, error)
	ToggleBorder() (*ipc.StatusData, error)
	ToggleOnTop() (*ipc.StatusData, error)
	GetScreenInfo() (*ipc.StatusData, error)
}

// liveResultMsg carries the outcome of a control call.
type liveResultMsg struct {
	action string
	status *ipc.StatusData
	err    error
}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

func liveCall(action string, call func() (*ipc.StatusData, error)) tea.Cmd {
	return func() tea.Msg {
		st, err := call()
		return liveResultMsg{action: action, status: st, err: err}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// LiveTab drives a running window over the control socket.
type LiveTab struct {
	ctl    Controller
	status *ipc.StatusData

	statusText string
	isError    bool

	width  int
	height int
}

// NewLiveTab creates a LiveTab using ctl.
func NewLiveTab(ctl Controller) LiveTab {
	return LiveTab{ctl: ctl}
}

// Refresh returns a command that fetches the current status.
func (l LiveTab) Refresh() tea.Cmd {
	if l.ctl == nil {
		return nil
	}
	return liveCall("refresh", l.ctl.GetStatus)
}

// Update handles messages for the live tab.
func (l LiveTab) Update(msg tea.Msg) (LiveTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width = msg.Width
		l.height = msg.Height

	case tea.KeyMsg:
		if l.ctl == nil {
			return l, nil
		}
		switch msg.String() {
		case "f":
			return l, liveCall("fullscreen", l.ctl.ToggleFullscreen)
		case "b":
			return l, liveCall("border", l.ctl.ToggleBorder)
		case "t":
			return l, liveCall("ontop", l.ctl.ToggleOnTop)
		case "s":
			return l, liveCall("screen", l.ctl.GetScreenInfo)
		case "r":
			return l, l.Refresh()
		}

	case liveResultMsg:
		if msg.err != nil {
			l.status = nil
			l.isError = true
			l.statusText = fmt.Sprintf("%s: %v", msg.action, msg.err)
		} else {
			l.status = msg.status
			l.isError = false
			l.statusText = msg.action + ": ok"
		}
		return l, clearStatusAfter(3 * time.Second)

	case clearStatusMsg:
		l.statusText = ""
		l.isError = false
	}
	return l, nil
}

// Status returns the last known window status, nil when not running.
func (l LiveTab) Status() *ipc.StatusData { return l.status }

// View implements tea.Model.
func (l LiveTab) View() string {
	if l.width == 0 || l.height == 0 {
		return ""
	}

	var lines []string
	if st := l.status; st != nil {
		lines = []string{
			"",
			row("Position", fmt.Sprintf("%d,%d", st.X, st.Y)),
			row("Size", fmt.Sprintf("%d×%d", st.Width, st.Height)),
			row("Fullscreen", onOff(st.Fullscreen)),
			row("Border", onOff(st.Bordered)),
			row("Stay On Top", onOff(st.OnTop)),
			row("Mode Switching", onOff(st.ModeSwitching)),
			"",
			row("Screen", fmt.Sprintf("%d×%d+%d+%d", st.Screen.Width, st.Screen.Height, st.Screen.X, st.Screen.Y)),
			row("Depth", fmt.Sprintf("%d bpp", st.Screen.Depth)),
			row("Uptime", (time.Duration(st.UptimeSeconds) * time.Second).String()),
		}
	} else {
		lines = []string{
			"",
			dimStyle.Render("  No window is running. Start one with 'vidwin run'."),
		}
	}

	body := lipgloss.NewStyle().
		Width(l.width).
		Height(max(l.height-1, 1)).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, body, l.renderTabStatus())
}

func (l LiveTab) renderTabStatus() string {
	left := ""
	if l.statusText != "" {
		color := lipgloss.Color("42")
		if l.isError {
			color = lipgloss.Color("196")
		}
		left = lipgloss.NewStyle().Foreground(color).Render(l.statusText)
	}

	right := dimStyle.Render("f:fullscreen  b:border  t:ontop  s:screen  r:refresh")

	gap := max(l.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return lipgloss.NewStyle().
		Width(l.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
