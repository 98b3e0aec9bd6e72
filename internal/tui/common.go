package tui

import (
	"fmt"
	"sync"
	"time"

	"github.com/sadopc/farmrun/internal/catalog"
	"github.com/sadopc/farmrun/internal/cloud"
	"github.com/sadopc/farmrun/internal/run"
	"github.com/sadopc/farmrun/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewHome viewState = iota
	viewSelection
	viewTimer
	viewHistory
	viewSettings
)

var viewNames = []string{"Home", "Scenes", "Timer", "History", "Settings"}

// lifecycleViews maps lifecycle view identifiers onto TUI views.
var lifecycleViews = map[string]viewState{
	run.ViewHome:      viewHome,
	run.ViewSelection: viewSelection,
	run.ViewTimer:     viewTimer,
	run.ViewHistory:   viewHistory,
	run.ViewSettings:  viewSettings,
}

// toastLevel classifies transient notifications.
type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastWarning
	toastError
)

const toastDuration = 3 * time.Second

// Shell is shared mutable UI state referenced by every value-copied model.
// It implements the lifecycle's Navigator and Sizer collaborators, so
// lifecycle-driven navigation survives bubbletea's model copying.
type Shell struct {
	cfg *store.AppConfig

	mu         sync.Mutex
	view       viewState
	preferred  store.ViewSize
	toastText  string
	toastLevel toastLevel
	toastUntil time.Time
}

func NewShell(cfg *store.AppConfig) *Shell {
	return &Shell{cfg: cfg}
}

func (s *Shell) currentView() viewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Shell) setView(v viewState) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
}

func (s *Shell) GoTimer() { s.setView(viewTimer) }

func (s *Shell) GoHome() { s.setView(viewHome) }

// ResizeForView records the preferred size for a view. In a terminal the
// window itself cannot be resized, so user-customized sizes cap panel
// layout instead. Never fails.
func (s *Shell) ResizeForView(view string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := lifecycleViews[view]; ok {
		s.view = v
	}
	s.preferred = store.ViewSize{}
	if s.cfg != nil {
		if size, ok := s.cfg.CustomViewSizes[view]; ok {
			s.preferred = size
		}
	}
	return nil
}

func (s *Shell) Preferred() store.ViewSize {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preferred
}

// Toast publishes a transient auto-dismissed notification.
func (s *Shell) Toast(text string, level toastLevel) {
	s.mu.Lock()
	s.toastText = text
	s.toastLevel = level
	s.toastUntil = time.Now().Add(toastDuration)
	s.mu.Unlock()
}

func (s *Shell) activeToast() (string, toastLevel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.toastText == "" || time.Now().After(s.toastUntil) {
		return "", toastInfo, false
	}
	return s.toastText, s.toastLevel, true
}

// --- Messages ---

type tickMsg time.Time

type historyLoadedMsg struct {
	err error
}

type syncDoneMsg struct {
	result cloud.SyncResult
	err    error
}

type loginStartedMsg struct {
	qrCodeURL string
	err       error
}

type logoutDoneMsg struct{ err error }

type exportDoneMsg struct {
	path string
	err  error
}

// --- Helpers ---

func langOf(cfg *store.AppConfig) string {
	if cfg != nil && cfg.Language == catalog.LangZH {
		return catalog.LangZH
	}
	return catalog.LangEN
}

// formatMS renders milliseconds as MM:SS.d; sentinel values render as --:--.
func formatMS(ms int64) string {
	if ms < 0 || ms > 100*365*24*3600*1000 {
		return "--:--"
	}
	m := ms / 60000
	s := (ms % 60000) / 1000
	tenths := (ms % 1000) / 100
	return fmt.Sprintf("%02d:%02d.%d", m, s, tenths)
}
