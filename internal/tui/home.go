package tui

import (
	"context"
	"fmt"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/farmrun/internal/history"
	"github.com/sadopc/farmrun/internal/run"
)

type homeModel struct {
	deps   Deps
	keys   keyMap
	width  int
	height int

	cursor int
}

var homeMenu = []string{"Start Farming", "Run History", "Settings", "Quit"}

func newHomeModel(deps Deps, keys keyMap) homeModel {
	return homeModel{deps: deps, keys: keys}
}

func (m *homeModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m homeModel) update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(homeMenu)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Enter):
			return m.activate()
		}
	}
	return m, nil
}

func (m homeModel) activate() (homeModel, tea.Cmd) {
	switch m.cursor {
	case 0:
		m.deps.Shell.setView(viewSelection)
		m.deps.Shell.ResizeForView(run.ViewSelection)
	case 1:
		m.deps.Shell.setView(viewHistory)
		m.deps.Shell.ResizeForView(run.ViewHistory)
		return m, func() tea.Msg {
			return historyLoadedMsg{err: m.deps.History.Load(context.Background())}
		}
	case 2:
		m.deps.Shell.setView(viewSettings)
		m.deps.Shell.ResizeForView(run.ViewSettings)
	case 3:
		return m, tea.Quit
	}
	return m, nil
}

func (m homeModel) view() string {
	w := m.width - 4
	if w < 30 {
		w = 30
	}

	menu := m.renderMenu()
	stats := m.renderStats()
	chart := m.renderChart()

	left := activePanelStyle.Render(menu)
	right := panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, stats, "", chart))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m homeModel) renderMenu() string {
	rows := []string{titleStyle.Render("farmrun"), ""}
	for i, item := range homeMenu {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+item))
	}
	rows = append(rows, "", mutedStyle.Render("↑/↓ move  enter select"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m homeModel) renderStats() string {
	records := m.deps.History.Records()
	d := history.ComputeDetailed(records)
	collected, total, percent := history.GrailProgress(records)

	rows := []string{
		titleStyle.Render("All-Time"),
		"",
		fmt.Sprintf("%s %d", subtitleStyle.Render("Runs      "), d.TotalRuns),
		fmt.Sprintf("%s %s", subtitleStyle.Render("Best      "), highlightStyle.Render(formatMS(d.Best))),
		fmt.Sprintf("%s %s", subtitleStyle.Render("Average   "), formatMS(d.Avg)),
		fmt.Sprintf("%s %s", subtitleStyle.Render("Total time"), formatMS(d.TotalTime)),
		fmt.Sprintf("%s %d", subtitleStyle.Render("Drops     "), d.TotalDrops),
		fmt.Sprintf("%s %d/%d (%d%%)", subtitleStyle.Render("Grail     "), collected, total, percent),
	}
	if d.SpecialRuns > 0 {
		rows = append(rows, fmt.Sprintf("%s %d", subtitleStyle.Render("TZ runs   "), d.SpecialRuns))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m homeModel) renderChart() string {
	days, counts := history.RunsPerDay(m.deps.History.Records())
	if len(days) == 0 {
		return mutedStyle.Render("No runs recorded yet")
	}

	// Last two weeks of activity.
	if len(days) > 14 {
		days = days[len(days)-14:]
		counts = counts[len(counts)-14:]
	}

	chartWidth := m.width/2 - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chart := barchart.New(chartWidth, 8)

	var bars []barchart.BarData
	for i, day := range days {
		bars = append(bars, barchart.BarData{
			Label: day[5:], // MM-DD
			Values: []barchart.BarValue{{
				Name:  day,
				Value: float64(counts[i]),
				Style: lipgloss.NewStyle().Foreground(colorPrimary),
			}},
		})
	}
	chart.PushAll(bars)
	chart.Draw()

	return lipgloss.JoinVertical(lipgloss.Left,
		subtitleStyle.Render("Runs per day"),
		chart.View(),
	)
}
