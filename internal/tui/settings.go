package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/farmrun/internal/catalog"
	"github.com/sadopc/farmrun/internal/cloud"
	"github.com/sadopc/farmrun/internal/run"
)

type settingsModel struct {
	deps   Deps
	keys   keyMap
	width  int
	height int

	formActive bool
	form       *huh.Form

	syncing   bool
	loggingIn bool
	qrCodeURL string

	// Form values as pointers (survive value copies)
	language *string
	theme    *string
	opacity  *string
}

func newSettingsModel(deps Deps, keys keyMap) settingsModel {
	lang, theme, opacity := "", "", ""
	return settingsModel{
		deps:     deps,
		keys:     keys,
		language: &lang,
		theme:    &theme,
		opacity:  &opacity,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Enter):
			return s.showForm()
		case msg.String() == "l":
			return s.startLogin()
		case msg.String() == "o":
			return s.logout()
		case msg.String() == "y":
			return s.startSync()
		case msg.String() == "x":
			return s.resetConfig()
		case key.Matches(msg, s.keys.Back):
			s.deps.Shell.setView(viewHome)
			s.deps.Shell.ResizeForView(run.ViewHome)
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	cfg := s.deps.Config
	*s.language = cfg.Language
	*s.theme = cfg.Theme
	*s.opacity = strconv.Itoa(cfg.ThemeOpacity)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Language").
				Options(
					huh.NewOption("English", catalog.LangEN),
					huh.NewOption("中文", catalog.LangZH),
				).Value(s.language),
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
				).Value(s.theme),
			huh.NewInput().Title("Theme opacity (0-100)").Value(s.opacity).
				Validate(func(v string) error {
					n, err := strconv.Atoi(v)
					if err != nil || n < 0 || n > 100 {
						return fmt.Errorf("must be 0-100")
					}
					return nil
				}),
		).Title("Appearance"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.saveConfig()
		return s, nil
	}

	return s, cmd
}

func (s settingsModel) saveConfig() {
	cfg := s.deps.Config
	cfg.Language = *s.language
	cfg.Theme = *s.theme
	if n, err := strconv.Atoi(*s.opacity); err == nil {
		cfg.ThemeOpacity = n
	}
	if err := s.deps.Store.SaveConfig(cfg); err != nil {
		s.deps.Shell.Toast("Save failed: "+err.Error(), toastError)
		return
	}
	s.deps.Shell.Toast("Settings saved", toastSuccess)
}

func (s settingsModel) resetConfig() (settingsModel, tea.Cmd) {
	cfg, err := s.deps.Store.ResetConfig()
	if err != nil {
		s.deps.Shell.Toast("Reset failed: "+err.Error(), toastError)
		return s, nil
	}
	*s.deps.Config = *cfg
	s.deps.Shell.Toast("Settings reset to defaults", toastSuccess)
	return s, nil
}

func (s settingsModel) startLogin() (settingsModel, tea.Cmd) {
	if !s.deps.Cloud.Enabled() {
		s.deps.Shell.Toast("Cloud sync is not available in this build", toastWarning)
		return s, nil
	}
	s.loggingIn = true

	deps := s.deps
	return s, func() tea.Msg {
		qr, err := deps.Cloud.StartLogin(context.Background(),
			func(u cloud.UserInfo) {
				deps.Config.CloudUserInfo = deps.Cloud.SanitizeUserInfo(&u)
				if err := deps.Store.SaveConfig(deps.Config); err != nil {
					deps.Logger.Error("persist login", "error", err)
				}
				deps.Shell.Toast("Logged in as "+u.NickName, toastSuccess)
			},
			func(err error) {
				deps.Shell.Toast("Login failed: "+err.Error(), toastError)
			},
		)
		return loginStartedMsg{qrCodeURL: qr, err: err}
	}
}

func (s settingsModel) logout() (settingsModel, tea.Cmd) {
	deps := s.deps
	s.qrCodeURL = ""
	return s, func() tea.Msg {
		err := deps.Cloud.Logout(context.Background())
		if err == nil {
			deps.Config.CloudUserInfo = ""
			deps.Config.LastSyncTime = ""
			if serr := deps.Store.SaveConfig(deps.Config); serr != nil {
				deps.Logger.Error("persist logout", "error", serr)
			}
		}
		return logoutDoneMsg{err: err}
	}
}

func (s settingsModel) startSync() (settingsModel, tea.Cmd) {
	cfg := s.deps.Config

	if !s.deps.Cloud.CheckLoginStatus(cfg) {
		s.deps.Shell.Toast("Log in before syncing", toastWarning)
		return s, nil
	}
	if remaining := s.deps.Cloud.CalcCooldown(cfg); remaining > 0 {
		s.deps.Shell.Toast(fmt.Sprintf("Sync on cooldown, %ds left", remaining), toastWarning)
		return s, nil
	}

	s.syncing = true
	deps := s.deps
	return s, func() tea.Msg {
		openID := ""
		if u := deps.Cloud.State().Get().UserInfo; u != nil {
			openID = u.OpenID
		}
		local, err := deps.Store.ListRuns(deps.History.Filter())
		if err != nil {
			return syncDoneMsg{err: err}
		}
		result, err := deps.Cloud.Sync(context.Background(), local, cfg, openID)
		if err == nil && result.Success {
			cfg.LastSyncTime = time.Now().Format(time.RFC3339)
			if serr := deps.Store.SaveConfig(cfg); serr != nil {
				deps.Logger.Error("persist sync time", "error", serr)
			}
		}
		return syncDoneMsg{result: result, err: err}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4
	if w < 40 {
		w = 40
	}

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", s.form.View()),
		)
	}

	cfg := s.deps.Config

	label := func(k string) string { return subtitleStyle.Render(lipgloss.NewStyle().Width(16).Render(k)) }
	rows := []string{
		titleStyle.Render("Settings"),
		"",
		fmt.Sprintf("  %s %s", label("Language"), highlightStyle.Render(cfg.Language)),
		fmt.Sprintf("  %s %s", label("Theme"), highlightStyle.Render(cfg.Theme)),
		fmt.Sprintf("  %s %s", label("Opacity"), highlightStyle.Render(strconv.Itoa(cfg.ThemeOpacity))),
		"",
		titleStyle.Render("Cloud"),
		"",
	}

	rows = append(rows, s.cloudRows(label)...)

	rows = append(rows, "",
		mutedStyle.Render("  enter edit  l login  o logout  y sync  x reset  esc back"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (s settingsModel) cloudRows(label func(string) string) []string {
	if !s.deps.Cloud.Enabled() {
		return []string{mutedStyle.Render("  Not available in this build")}
	}

	var rows []string
	state := s.deps.Cloud.State().Get()

	status := errorStyle.Render("logged out")
	if s.deps.Cloud.CheckLoginStatus(s.deps.Config) {
		name := ""
		if state.UserInfo != nil {
			name = state.UserInfo.NickName
		}
		status = successStyle.Render("logged in") + " " + normalItemStyle.Render(name)
	}
	rows = append(rows, fmt.Sprintf("  %s %s", label("Status"), status))

	if s.deps.Config.LastSyncTime != "" {
		rows = append(rows, fmt.Sprintf("  %s %s", label("Last sync"),
			normalItemStyle.Render(s.deps.Config.LastSyncTime)))
	}
	if remaining := s.deps.Cloud.CalcCooldown(s.deps.Config); remaining > 0 {
		rows = append(rows, fmt.Sprintf("  %s %s", label("Cooldown"),
			warningStyle.Render(fmt.Sprintf("%ds", remaining))))
	}
	if s.qrCodeURL != "" {
		rows = append(rows, fmt.Sprintf("  %s %s", label("Login QR"),
			accentStyle.Render(s.qrCodeURL)))
	}
	if s.syncing {
		rows = append(rows, mutedStyle.Render("  Syncing..."))
	}
	if s.loggingIn {
		rows = append(rows, mutedStyle.Render("  Starting login..."))
	}
	return rows
}
