package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/farmrun/internal/cloud"
	"github.com/sadopc/farmrun/internal/history"
	"github.com/sadopc/farmrun/internal/run"
	"github.com/sadopc/farmrun/internal/store"
)

// Deps carries the wired application components into the TUI.
type Deps struct {
	Store     *store.Store
	Config    *store.AppConfig
	Logger    *slog.Logger
	Cloud     *cloud.Facade
	History   *history.History
	Session   *run.Session
	Timer     *run.Timer
	Drops     *run.DropRecorder
	Scenario  *run.Scenario
	Search    *run.Search
	Lifecycle *run.Lifecycle
	Shell     *Shell
}

// App is the root Bubble Tea model.
type App struct {
	deps   Deps
	keys   keyMap
	width  int
	height int

	showHelp bool

	home      homeModel
	selection selectionModel
	timer     timerModel
	hist      historyModel
	settings  settingsModel

	help help.Model
}

func NewApp(deps Deps) App {
	h := help.New()
	h.ShowAll = false

	keys := newKeyMap(deps.Config.Shortcuts)

	return App{
		deps:      deps,
		keys:      keys,
		home:      newHomeModel(deps, keys),
		selection: newSelectionModel(deps, keys),
		timer:     newTimerModel(deps, keys),
		hist:      newHistoryModel(deps, keys),
		settings:  newSettingsModel(deps, keys),
		help:      h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.hist.loadCmd(),
		tickCmd(),
	)
}

// tickCmd drives display refresh while a run timer is active. The run timer
// itself advances on its own goroutine; this only repaints.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.home.setSize(a.width, contentHeight)
		a.selection.setSize(a.width, contentHeight)
		a.timer.setSize(a.width, contentHeight)
		a.hist.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Input-capturing children (search panel, forms, filter pickers) see
		// keys before any global binding.
		if a.isCapturing() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, a.keys.Quit):
			if a.deps.Shell.currentView() == viewTimer {
				// Leaving mid-session finishes it first.
				a.deps.Lifecycle.FinishSession(context.Background())
				return a, nil
			}
			return a, tea.Quit
		}
		return a.updateActiveView(msg)

	case tickMsg:
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case historyLoadedMsg:
		if msg.err != nil {
			a.deps.Shell.Toast("History load failed: "+msg.err.Error(), toastError)
		}
		return a, nil

	case syncDoneMsg:
		a.settings.syncing = false
		switch {
		case msg.err != nil:
			a.deps.Shell.Toast("Sync failed: "+msg.err.Error(), toastError)
		case !msg.result.Success:
			a.deps.Shell.Toast(msg.result.Message, toastWarning)
		default:
			a.deps.Shell.Toast(msg.result.Message, toastSuccess)
			// Drop the stale local snapshot; the reload rebuilds both sides.
			a.deps.History.ClearLocal()
			return a, a.hist.loadCmd()
		}
		return a, nil

	case loginStartedMsg:
		a.settings.loggingIn = false
		if msg.err != nil {
			a.deps.Shell.Toast("Login unavailable: "+msg.err.Error(), toastError)
		} else {
			a.settings.qrCodeURL = msg.qrCodeURL
			a.deps.Shell.Toast("Scan the QR code to log in", toastInfo)
		}
		return a, nil

	case logoutDoneMsg:
		if msg.err != nil {
			a.deps.Shell.Toast("Logout failed: "+msg.err.Error(), toastError)
		} else {
			a.deps.Shell.Toast("Logged out", toastSuccess)
		}
		return a, nil

	case exportDoneMsg:
		if msg.err != nil {
			a.deps.Shell.Toast("Export failed: "+msg.err.Error(), toastError)
		} else {
			a.deps.Shell.Toast("Exported to "+msg.path, toastSuccess)
		}
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.deps.Shell.currentView() {
	case viewHome:
		a.home, cmd = a.home.update(msg)
	case viewSelection:
		a.selection, cmd = a.selection.update(msg)
	case viewTimer:
		a.timer, cmd = a.timer.update(msg)
	case viewHistory:
		a.hist, cmd = a.hist.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isCapturing() bool {
	switch a.deps.Shell.currentView() {
	case viewTimer:
		return a.timer.capturing()
	case viewHistory:
		return a.hist.capturing()
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.deps.Shell.currentView() {
	case viewHome:
		content = a.home.view()
	case viewSelection:
		content = a.selection.view()
	case viewTimer:
		content = a.timer.view()
	case viewHistory:
		content = a.hist.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	active := a.deps.Shell.currentView()

	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == active {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("farmrun")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(a.keys)

	right := ""
	if text, level, ok := a.deps.Shell.activeToast(); ok {
		style := mutedStyle
		switch level {
		case toastSuccess:
			style = successStyle
		case toastWarning:
			style = warningStyle
		case toastError:
			style = errorStyle
		}
		right = style.Render(" " + text)
	}

	if a.deps.Timer.Running() {
		elapsed := formatMS(a.deps.Timer.Elapsed().Milliseconds())
		indicator := successStyle.Render(" ● " + elapsed)
		if a.deps.Lifecycle.EffectivePaused() {
			indicator = warningStyle.Render(" ⏸ " + elapsed)
		}
		right = indicator + right
	}

	left := footerStyle.Render(helpView)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}
