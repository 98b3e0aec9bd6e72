package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/farmrun/internal/catalog"
	"github.com/sadopc/farmrun/internal/cloud"
	"github.com/sadopc/farmrun/internal/export"
	"github.com/sadopc/farmrun/internal/history"
	"github.com/sadopc/farmrun/internal/run"
	"github.com/sadopc/farmrun/internal/store"
)

type historyModel struct {
	deps   Deps
	keys   keyMap
	width  int
	height int

	cursor  int
	loading bool

	exportPicking bool
	exportCursor  int

	sceneFilter int // index into filterScenes, 0 = all
}

var exportFormats = []string{"CSV", "JSON", "HTML dashboard"}

func newHistoryModel(deps Deps, keys keyMap) historyModel {
	return historyModel{deps: deps, keys: keys}
}

func (m *historyModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m historyModel) capturing() bool {
	return m.exportPicking
}

// filterScenes is the cycle order of the scene filter: all scenes first.
func filterScenes() []string {
	names := []string{history.FilterAllScenes}
	for _, sc := range catalog.Scenes {
		names = append(names, sc.Name)
	}
	return names
}

func (m historyModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return historyLoadedMsg{err: m.deps.History.Load(context.Background())}
	}
}

func (m historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.loading = false
		if n := len(m.deps.History.Records()); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}
		return m, nil

	case tea.KeyMsg:
		if m.exportPicking {
			return m.updateExportPicker(msg)
		}

		records := m.deps.History.Records()
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(records)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Reload):
			m.loading = true
			return m, m.loadCmd()
		case key.Matches(msg, m.keys.Delete):
			if m.cursor < len(records) {
				id := records[m.cursor].ID
				m.loading = true
				return m, func() tea.Msg {
					return historyLoadedMsg{err: m.deps.History.Delete(context.Background(), id)}
				}
			}
		case key.Matches(msg, m.keys.Filter):
			return m.cycleFilter()
		case key.Matches(msg, m.keys.Export):
			m.exportPicking = true
			m.exportCursor = 0
		case key.Matches(msg, m.keys.Back):
			m.deps.Shell.setView(viewHome)
			m.deps.Shell.ResizeForView(run.ViewHome)
		}
	}
	return m, nil
}

func (m historyModel) cycleFilter() (historyModel, tea.Cmd) {
	scenes := filterScenes()
	m.sceneFilter = (m.sceneFilter + 1) % len(scenes)
	m.cursor = 0

	f := m.deps.History.Filter()
	f.SceneID = scenes[m.sceneFilter]
	m.deps.History.SetFilter(f)

	m.loading = true
	return m, m.loadCmd()
}

func (m historyModel) updateExportPicker(msg tea.KeyMsg) (historyModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.exportCursor > 0 {
			m.exportCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.exportCursor < len(exportFormats)-1 {
			m.exportCursor++
		}
	case key.Matches(msg, m.keys.Enter):
		m.exportPicking = false
		return m, m.doExport(m.exportCursor)
	case key.Matches(msg, m.keys.Back):
		m.exportPicking = false
	}
	return m, nil
}

func (m historyModel) doExport(format int) tea.Cmd {
	records := m.deps.History.Records()
	lang := langOf(m.deps.Config)

	return func() tea.Msg {
		home, err := os.UserHomeDir()
		if err != nil {
			return exportDoneMsg{err: err}
		}
		dateStr := time.Now().Format("2006-01-02")

		var path string
		switch format {
		case 0:
			path = filepath.Join(home, fmt.Sprintf("farmrun-export-%s.csv", dateStr))
			err = export.ToCSV(records, lang, path)
		case 1:
			path = filepath.Join(home, fmt.Sprintf("farmrun-export-%s.json", dateStr))
			err = export.ToJSON(records, lang, path)
		default:
			path, err = export.Dashboard(records, home, "history")
			if err == nil {
				export.OpenInBrowser(path)
			}
		}
		return exportDoneMsg{path: path, err: err}
	}
}

func (m historyModel) view() string {
	records := m.deps.History.Records()
	lang := langOf(m.deps.Config)
	w := m.width - 4
	if w < 50 {
		w = 50
	}

	scenes := filterScenes()
	filterLabel := "all scenes"
	if m.sceneFilter > 0 {
		filterLabel = catalog.SceneName(scenes[m.sceneFilter], lang)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Run History"), "  ",
		mutedStyle.Render(fmt.Sprintf("%d runs", len(records))), "  ",
		accentStyle.Render(filterLabel),
	)
	if m.loading {
		header += "  " + mutedStyle.Render("loading...")
	}

	var rows []string
	rows = append(rows, header, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-17s %-22s %9s %6s %4s",
		"Time", "Scene", "Duration", "Drops", "")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 64))))

	if len(records) == 0 {
		rows = append(rows, mutedStyle.Render("  No runs recorded"))
	}

	visible := m.height - 12
	if visible < 5 {
		visible = 5
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(records) {
		end = len(records)
	}

	for i := start; i < end; i++ {
		rows = append(rows, m.renderRow(records[i], i == m.cursor, lang))
	}

	if m.exportPicking {
		rows = append(rows, "", m.renderExportPicker())
	} else {
		rows = append(rows, "", mutedStyle.Render("  r reload  d delete  s filter  e export  esc back"))
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m historyModel) renderRow(rec store.RunRecord, selected bool, lang string) string {
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}

	when := time.UnixMilli(rec.Timestamp).Format("01-02 15:04:05")
	scene := catalog.SceneName(rec.SceneID, lang)

	marks := ""
	if rec.IsTZ {
		marks += specialStyle.Render("TZ")
	}
	if strings.HasPrefix(rec.ID, cloud.CloudIDPrefix) {
		marks += accentStyle.Render("☁")
	}

	return style.Render(fmt.Sprintf("%s%-17s %-22s %9s %6d ", cursor, when, scene,
		formatMS(rec.DurationMS), len(rec.Drops))) + marks
}

func (m historyModel) renderExportPicker() string {
	rows := []string{titleStyle.Render("  Export format")}
	for i, f := range exportFormats {
		cursor := "    "
		style := normalItemStyle
		if i == m.exportCursor {
			cursor = "  > "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, mutedStyle.Render("  enter export  esc cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
