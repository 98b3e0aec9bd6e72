package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/farmrun/internal/catalog"
	"github.com/sadopc/farmrun/internal/run"
)

type selectionModel struct {
	deps   Deps
	keys   keyMap
	width  int
	height int

	cursor int
}

func newSelectionModel(deps Deps, keys keyMap) selectionModel {
	return selectionModel{deps: deps, keys: keys}
}

func (m *selectionModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m selectionModel) update(msg tea.Msg) (selectionModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(catalog.Scenes)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Enter):
			scene := catalog.Scenes[m.cursor]
			m.deps.Lifecycle.SelectScene(scene.Name)
			return m, nil
		case key.Matches(msg, m.keys.Back):
			m.deps.Shell.setView(viewHome)
			m.deps.Shell.ResizeForView(run.ViewHome)
			return m, nil
		}
	}
	return m, nil
}

func (m selectionModel) view() string {
	lang := langOf(m.deps.Config)

	rows := []string{titleStyle.Render("Choose a scene"), ""}
	for i, scene := range catalog.Scenes {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		label := catalog.SceneName(scene.Name, lang)
		short := catalog.SceneLabel(scene.Name, lang)
		line := fmt.Sprintf("%s%-22s %s", cursor, label, mutedStyle.Render(short))
		if scene.Name == catalog.SpecialScene {
			line = fmt.Sprintf("%s%-22s %s", cursor, label, specialStyle.Render(short))
		}
		rows = append(rows, style.Render(line))
	}
	rows = append(rows, "", mutedStyle.Render("enter start  esc back"))

	w := m.width / 2
	if w < 40 {
		w = 40
	}
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
