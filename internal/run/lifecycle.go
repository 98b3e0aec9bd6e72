package run

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sadopc/farmrun/internal/catalog"
)

// ActionThrottle is the minimum interval between lifecycle-advancing actions,
// rejecting rapid double-triggers from input bouncing.
const ActionThrottle = 500 * time.Millisecond

// View identifiers handed to the Navigator and Sizer collaborators.
const (
	ViewHome      = "HOME"
	ViewSelection = "SELECTION"
	ViewTimer     = "TIMER"
	ViewHistory   = "HISTORY"
	ViewSettings  = "SETTINGS"
)

// Navigator switches between application views.
type Navigator interface {
	GoTimer()
	GoHome()
}

// Sizer applies per-view window sizing. Best effort; errors are logged.
type Sizer interface {
	ResizeForView(view string) error
}

// HistoryReloader refreshes the reconciled run history after persistence
// changes.
type HistoryReloader interface {
	Load(ctx context.Context) error
}

// Lifecycle is the run orchestrator: it composes the timer, session, drop
// recorder, scenario and search into the start/next/finish/pause control flow
// and owns the cross-cutting invariants (pause accounting, throttling,
// persistence ordering).
type Lifecycle struct {
	timer    *Timer
	session  *Session
	drops    *DropRecorder
	scenario *Scenario
	search   *Search
	history  HistoryReloader
	nav      Navigator
	sizer    Sizer
	logger   *slog.Logger

	mu         sync.Mutex
	lastAction time.Time
}

func NewLifecycle(
	timer *Timer,
	session *Session,
	drops *DropRecorder,
	scenario *Scenario,
	search *Search,
	history HistoryReloader,
	nav Navigator,
	sizer Sizer,
	logger *slog.Logger,
) *Lifecycle {
	return &Lifecycle{
		timer:    timer,
		session:  session,
		drops:    drops,
		scenario: scenario,
		search:   search,
		history:  history,
		nav:      nav,
		sizer:    sizer,
		logger:   logger,
	}
}

// EffectivePaused reports whether the run is logically paused: explicit user
// pause or the search panel being open. This is the ticker predicate.
func (l *Lifecycle) EffectivePaused() bool {
	return l.timer.UserPaused() || l.search.IsOpen()
}

func (l *Lifecycle) throttleOK() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	if now.Sub(l.lastAction) < ActionThrottle {
		return false
	}
	l.lastAction = now
	return true
}

// SelectScene prepares a session for a scene and starts the first run. The
// special flag from any previous session is cleared first; selecting the
// special scene forces it back on.
func (l *Lifecycle) SelectScene(name string) {
	if catalog.SceneByName(name) == nil {
		return
	}
	l.scenario.Reset()
	scene := l.scenario.SelectByName(name)

	l.nav.GoTimer()
	l.resize(ViewTimer)

	l.session.ResetStats()
	l.drops.ResetSession()
	l.session.LoadDailyRunCount(scene.Name)

	l.StartNewRun()
}

// StartNewRun discards any in-flight timer state and begins a fresh run.
func (l *Lifecycle) StartNewRun() {
	l.timer.Stop()
	l.timer.SetUserPaused(false)
	l.search.Close()
	l.drops.ResetCurrent()

	l.timer.Start()
	l.timer.StartTicker(l.EffectivePaused)
}

// NextRun completes the current run and immediately starts the next one.
// Runs below the minimum viable duration are discarded without persistence.
// A save failure is logged and never blocks continued play.
func (l *Lifecycle) NextRun(ctx context.Context) {
	if l.scenario.Current() == nil || !l.timer.Running() {
		return
	}
	if !l.throttleOK() {
		return
	}

	duration := l.timer.Elapsed()
	if !l.session.IsValidRunDuration(duration) {
		l.StartNewRun()
		return
	}

	l.session.UpdateStats(duration)
	l.session.IncrementDailyRunCount()

	rec := l.session.NewRecord(
		l.scenario.Current().Name,
		duration,
		l.drops.Current(),
		l.scenario.SpecialActive(),
	)

	if err := l.session.SaveRun(rec); err != nil {
		l.logger.Error("save run", "id", rec.ID, "error", err)
	} else if err := l.history.Load(ctx); err != nil {
		l.logger.Error("reload history", "error", err)
	}

	l.StartNewRun()
}

// FinishSession persists a final substantial run if one is in progress, then
// stops the timer and returns to the idle view.
func (l *Lifecycle) FinishSession(ctx context.Context) {
	if !l.throttleOK() {
		return
	}

	if l.timer.Running() && l.session.MeetsSessionSaveThreshold(l.timer.Elapsed()) {
		sceneID := ""
		if sc := l.scenario.Current(); sc != nil {
			sceneID = sc.Name
		}
		rec := l.session.NewRecord(sceneID, l.timer.Elapsed(), l.drops.Current(), l.scenario.SpecialActive())
		if err := l.session.SaveRun(rec); err != nil {
			l.logger.Error("save final run", "id", rec.ID, "error", err)
		} else if err := l.history.Load(ctx); err != nil {
			l.logger.Error("reload history", "error", err)
		}
	}

	l.timer.Stop()
	l.nav.GoHome()
	l.resize(ViewHome)
}

// TogglePause flips the explicit user pause. Search-induced pausing is
// unaffected.
func (l *Lifecycle) TogglePause() {
	if !l.throttleOK() {
		return
	}
	if l.timer.Running() {
		l.timer.SetUserPaused(!l.timer.UserPaused())
	}
}

// OpenSearch opens the item lookup panel, effectively pausing the run.
func (l *Lifecycle) OpenSearch() { l.search.Open() }

// CloseSearch dismisses the panel without recording anything.
func (l *Lifecycle) CloseSearch() { l.search.Close() }

// ConfirmDrop records the chosen (or highlighted) item for the current run.
func (l *Lifecycle) ConfirmDrop(item *catalog.Item) {
	l.search.ConfirmDrop(item, func(itemID string) {
		l.drops.AddDrop(itemID, l.session.DailyRunCount())
	})
}

// CreateCustomItem records a freeform drop. Validation failures are surfaced
// through notify and keep the panel open.
func (l *Lifecycle) CreateCustomItem(name, quality string, notify func(msg string)) {
	l.search.CreateCustomItem(name, quality, notify, func(itemID string) {
		l.drops.AddDrop(itemID, l.session.DailyRunCount())
	})
}

func (l *Lifecycle) resize(view string) {
	if l.sizer == nil {
		return
	}
	if err := l.sizer.ResizeForView(view); err != nil {
		l.logger.Warn("resize view", "view", view, "error", err)
	}
}
