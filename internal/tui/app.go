// Package tui is the interactive configuration and live-control screen
// behind "vidwin tui".
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/vidwin/internal/config"
	"github.com/1broseidon/vidwin/internal/ipc"
)

// Run opens the TUI on configPath (the standard location when empty) and
// blocks until the user quits.
func Run(configPath string) error {
	_, err := tea.NewProgram(newModel(configPath, ipc.NewClient()), tea.WithAltScreen()).Run()
	return err
}

// model is the root bubbletea model for the TUI.
type model struct {
	configPath string
	result     *config.LoadResult
	loadErr    error

	activeTab Tab

	windowTab  WindowTab
	displayTab DisplayTab
	hotkeysTab HotkeysTab
	liveTab    LiveTab

	// Save overlay
	originalConfig *config.Config
	saveOverlay    SaveOverlay

	width  int
	height int
}

func newModel(configPath string, ctl Controller) model {
	m := model{
		configPath: configPath,
		activeTab:  TabWindow,
	}

	m.loadConfig()

	// Snapshot original config for diff preview on save
	var cfg *config.Config
	if m.result != nil {
		cfg = m.result.Config
		m.originalConfig = cloneConfig(cfg)
	}

	m.windowTab = NewWindowTab(cfg)
	m.displayTab = NewDisplayTab(cfg)
	m.hotkeysTab = NewHotkeysTab(cfg)
	m.liveTab = NewLiveTab(ctl)
	return m
}

func (m *model) loadConfig() {
	var res *config.LoadResult
	var err error

	if m.configPath == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(m.configPath)
	}

	if err != nil {
		m.loadErr = err
		return
	}
	m.result = res
}

func (m model) cfg() *config.Config {
	if m.result == nil {
		return nil
	}
	return m.result.Config
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.liveTab.Refresh()
}

func (m model) capturing() bool {
	switch m.activeTab {
	case TabWindow:
		return m.windowTab.editing
	case TabDisplay:
		return m.displayTab.editing
	case TabHotkeys:
		return m.hotkeysTab.editing
	}
	return false
}

func (m model) resize(msg tea.WindowSizeMsg) model {
	m.width = msg.Width
	m.height = msg.Height
	sub := tea.WindowSizeMsg{Width: m.width, Height: max(m.height-4, 1)}
	m.windowTab, _ = m.windowTab.Update(sub)
	m.displayTab, _ = m.displayTab.Update(sub)
	m.hotkeysTab, _ = m.hotkeysTab.Update(sub)
	m.liveTab, _ = m.liveTab.Update(sub)
	return m
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Control results land on the live tab whichever tab is showing.
	switch msg := msg.(type) {
	case liveResultMsg, clearStatusMsg:
		var cmd tea.Cmd
		m.liveTab, cmd = m.liveTab.Update(msg)
		if st := m.liveTab.Status(); st != nil {
			m.displayTab.SetLiveScreen(st.Screen.Width, st.Screen.Height)
		} else {
			m.displayTab.SetLiveScreen(0, 0)
		}
		return m, cmd
	case tea.WindowSizeMsg:
		return m.resize(msg), nil
	}

	// Save overlay captures all input when active
	if m.saveOverlay.Active() {
		if km, ok := msg.(tea.KeyMsg); ok {
			if km.String() == "ctrl+c" {
				return m, tea.Quit
			}
			prevPhase := m.saveOverlay.phase
			m.saveOverlay = m.saveOverlay.Update(km, m.cfg(), m.configPath)
			// After successful save, update the original snapshot
			if prevPhase == saveReview && m.saveOverlay.SaveSucceeded() {
				m.originalConfig = cloneConfig(m.cfg())
			}
		}
		return m, nil
	}

	// ctrl+s triggers save overlay from any context (including form editing)
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+s" {
		if cfg := m.cfg(); cfg != nil {
			m.saveOverlay.Show(m.originalConfig, cfg)
		}
		return m, nil
	}

	if km, ok := msg.(tea.KeyMsg); ok && !m.capturing() {
		switch km.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1", "2", "3", "4":
			m.activeTab = Tab(km.String()[0] - '1')
			if m.activeTab == TabLive {
				return m, m.liveTab.Refresh()
			}
			return m, nil
		}
	} else if ok && km.String() == "ctrl+c" {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case TabWindow:
		m.windowTab, cmd = m.windowTab.Update(msg)
	case TabDisplay:
		m.displayTab, cmd = m.displayTab.Update(msg)
	case TabHotkeys:
		m.hotkeysTab, cmd = m.hotkeysTab.Update(msg)
	case TabLive:
		m.liveTab, cmd = m.liveTab.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.liveTab.Status(), m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := max(m.height-usedHeight, 1)

	var content string
	switch {
	case m.saveOverlay.Active():
		content = m.saveOverlay.View(m.width, contentHeight)
	case m.loadErr != nil && m.activeTab != TabLive:
		content = lipgloss.NewStyle().
			Width(m.width).
			Height(contentHeight).
			Padding(1, 2).
			Foreground(lipgloss.Color("196")).
			Render("Config error: " + m.loadErr.Error())
	default:
		switch m.activeTab {
		case TabWindow:
			content = m.windowTab.View()
		case TabDisplay:
			content = m.displayTab.View()
		case TabHotkeys:
			content = m.hotkeysTab.View()
		case TabLive:
			content = m.liveTab.View()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
