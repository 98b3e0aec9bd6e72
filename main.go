package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/farmrun/internal/cloud"
	"github.com/sadopc/farmrun/internal/history"
	"github.com/sadopc/farmrun/internal/run"
	"github.com/sadopc/farmrun/internal/store"
	"github.com/sadopc/farmrun/internal/tui"
)

func main() {
	logger, logFile := newLogger()
	if logFile != nil {
		defer logFile.Close()
	}

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	cfg, err := s.LoadConfig()
	if err != nil {
		logger.Warn("load config", "error", err)
	}
	if cfg == nil {
		cfg = store.DefaultConfig()
	}

	facade := cloud.New(s, logger)
	defer facade.StopPolling()

	hist := history.New(s, facade, logger)

	timer := run.NewTimer()
	defer timer.Stop()
	session := run.NewSession(s, logger)
	drops := run.NewDropRecorder()
	scenario := run.NewScenario()
	search := run.NewSearch()

	shell := tui.NewShell(cfg)
	lifecycle := run.NewLifecycle(timer, session, drops, scenario, search, hist, shell, shell, logger)

	app := tui.NewApp(tui.Deps{
		Store:     s,
		Config:    cfg,
		Logger:    logger,
		Cloud:     facade,
		History:   hist,
		Session:   session,
		Timer:     timer,
		Drops:     drops,
		Scenario:  scenario,
		Search:    search,
		Lifecycle: lifecycle,
		Shell:     shell,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes structured JSON logs to the config directory. The TUI owns
// the terminal, so nothing ever logs to stdout.
func newLogger() (*slog.Logger, *os.File) {
	path, err := store.DefaultLogPath()
	if err == nil {
		f, ferr := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if ferr == nil {
			return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})), f
		}
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})), nil
}
