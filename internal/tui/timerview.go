package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/farmrun/internal/catalog"
	"github.com/sadopc/farmrun/internal/run"
)

type timerModel struct {
	deps   Deps
	keys   keyMap
	width  int
	height int

	input textinput.Model
}

func newTimerModel(deps Deps, keys keyMap) timerModel {
	ti := textinput.New()
	ti.Placeholder = "item name"
	ti.CharLimit = run.SearchQueryMaxLen
	ti.Width = 24
	return timerModel{deps: deps, keys: keys, input: ti}
}

func (m *timerModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// capturing reports whether the search panel owns keyboard input.
func (m timerModel) capturing() bool {
	return m.deps.Search.IsOpen()
}

func (m timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		// Repaint only; the run timer advances on its own ticker.
		return m, nil

	case tea.KeyMsg:
		if m.deps.Search.IsOpen() {
			return m.updateSearch(msg)
		}
		switch {
		case key.Matches(msg, m.keys.NextRun):
			return m, func() tea.Msg {
				m.deps.Lifecycle.NextRun(context.Background())
				return nil
			}
		case key.Matches(msg, m.keys.Pause):
			m.deps.Lifecycle.TogglePause()
		case key.Matches(msg, m.keys.Finish):
			return m, func() tea.Msg {
				m.deps.Lifecycle.FinishSession(context.Background())
				return nil
			}
		case key.Matches(msg, m.keys.Search):
			m.deps.Lifecycle.OpenSearch()
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Special):
			if sc := m.deps.Scenario.Current(); sc != nil && sc.Name != catalog.SpecialScene {
				m.deps.Scenario.ToggleSpecial()
			}
		}
	}
	return m, nil
}

func (m timerModel) updateSearch(msg tea.KeyMsg) (timerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.deps.Lifecycle.CloseSearch()
		m.input.Blur()
		return m, nil

	// Only bare arrows navigate here; letters must reach the text input.
	case msg.Type == tea.KeyUp:
		m.deps.Search.Navigate(-1)
		return m, nil

	case msg.Type == tea.KeyDown:
		m.deps.Search.Navigate(1)
		return m, nil

	case key.Matches(msg, m.keys.Quality1):
		m.deps.Search.SetQuality("1")
		return m, nil

	case key.Matches(msg, m.keys.Quality2):
		m.deps.Search.SetQuality("2")
		return m, nil

	case key.Matches(msg, m.keys.Quality3):
		m.deps.Search.SetQuality("3")
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if len(m.deps.Search.Results()) > 0 {
			m.deps.Lifecycle.ConfirmDrop(nil)
			m.input.Blur()
			m.deps.Shell.Toast("Drop recorded", toastSuccess)
		} else {
			name := run.SanitizeInput(m.input.Value())
			m.deps.Lifecycle.CreateCustomItem(name, m.deps.Search.Quality(), func(text string) {
				m.deps.Shell.Toast(text, toastWarning)
			})
			if !m.deps.Search.IsOpen() {
				m.input.Blur()
				m.deps.Shell.Toast("Custom drop recorded", toastSuccess)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.deps.Search.Perform(run.SanitizeInput(m.input.Value()))
	return m, cmd
}

func (m timerModel) view() string {
	lang := langOf(m.deps.Config)

	sceneName := "No scene"
	if sc := m.deps.Scenario.Current(); sc != nil {
		sceneName = catalog.SceneName(sc.Name, lang)
	}

	elapsed := formatMS(m.deps.Timer.Elapsed().Milliseconds())
	timerLine := timerRunningStyle.Render(elapsed)
	stateLine := successStyle.Render("running")
	if m.deps.Lifecycle.EffectivePaused() {
		timerLine = timerPausedStyle.Render(elapsed)
		stateLine = warningStyle.Render("paused")
		if m.deps.Search.IsOpen() {
			stateLine = warningStyle.Render("paused (recording drop)")
		}
	}

	header := titleStyle.Render(sceneName)
	if m.deps.Scenario.SpecialActive() {
		header += "  " + specialStyle.Render("[TZ]")
	}
	header += "  " + mutedStyle.Render(fmt.Sprintf("run #%d today", m.deps.Session.DailyRunCount()))

	stats := m.renderStats()
	drops := m.renderDrops(lang)

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		timerLine,
		stateLine,
		"",
		stats,
		"",
		drops,
	)

	w := m.width - 4
	if pref := m.deps.Shell.Preferred(); pref.W > 0 && pref.W < w {
		w = pref.W
	}
	if w < 40 {
		w = 40
	}
	main := activePanelStyle.Width(w).Render(body)

	if m.deps.Search.IsOpen() {
		return lipgloss.JoinVertical(lipgloss.Left, main, m.renderSearch(lang, w))
	}
	return main
}

func (m timerModel) renderStats() string {
	st := m.deps.Session.Stats()
	return lipgloss.JoinHorizontal(lipgloss.Top,
		subtitleStyle.Render("best "), highlightStyle.Render(formatMS(st.Best)),
		subtitleStyle.Render("  avg "), normalItemStyle.Render(formatMS(st.Avg)),
		subtitleStyle.Render("  runs "), normalItemStyle.Render(fmt.Sprintf("%d", st.RunCount)),
		subtitleStyle.Render("  total "), normalItemStyle.Render(formatMS(st.TotalTime)),
		subtitleStyle.Render("  paused "), mutedStyle.Render(formatMS(m.deps.Timer.TotalPaused().Milliseconds())),
	)
}

func (m timerModel) renderDrops(lang string) string {
	var rows []string

	current := m.deps.Drops.Current()
	if len(current) > 0 {
		var names []string
		for _, id := range current {
			names = append(names, m.renderItem(id, lang))
		}
		rows = append(rows, subtitleStyle.Render("This run: ")+strings.Join(names, ", "))
	}

	log := m.deps.Drops.SessionLog()
	if len(log) > 0 {
		rows = append(rows, subtitleStyle.Render("Session drops:"))
		shown := log
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, d := range shown {
			rows = append(rows, fmt.Sprintf("  %s %s",
				m.renderItem(d.ItemID, lang),
				mutedStyle.Render(fmt.Sprintf("(run %d)", d.RunNumber)),
			))
		}
		if len(log) > 5 {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  +%d more", len(log)-5)))
		}
	}

	if len(rows) == 0 {
		return mutedStyle.Render("No drops yet. Press / to record one.")
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m timerModel) renderItem(id, lang string) string {
	name := catalog.ItemName(id, lang)
	if item := catalog.LookupItem(id); item != nil && item.Color != "" {
		return rarityStyle(item.Color).Render(name)
	}
	return normalItemStyle.Render(name)
}

func (m timerModel) renderSearch(lang string, w int) string {
	rows := []string{
		titleStyle.Render("Record drop"),
		m.input.View(),
		"",
	}

	results := m.deps.Search.Results()
	if len(results) == 0 {
		q := catalog.QualityByCode(m.deps.Search.Quality())
		label := q.Label
		if lang == catalog.LangZH {
			label = q.LabelZH
		}
		rows = append(rows,
			mutedStyle.Render("No matches. Enter creates a custom item."),
			subtitleStyle.Render("Quality: ")+rarityStyle(q.Color).Render(label)+
				mutedStyle.Render("  (ctrl+n/g/r)"),
		)
	} else {
		for i, item := range results {
			cursor := "  "
			style := normalItemStyle
			if i == m.deps.Search.Index() {
				cursor = "> "
				style = selectedItemStyle
			}
			name := item.Name
			if lang == catalog.LangZH && item.NameZH != "" {
				name = item.NameZH
			}
			rows = append(rows, style.Render(cursor)+rarityStyle(item.Color).Render(name))
		}
	}

	rows = append(rows, "", mutedStyle.Render("enter confirm  ↑/↓ move  esc cancel"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
