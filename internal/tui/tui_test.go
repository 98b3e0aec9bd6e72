package tui

import (
	"context"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/farmrun/internal/cloud"
	"github.com/sadopc/farmrun/internal/history"
	"github.com/sadopc/farmrun/internal/run"
	"github.com/sadopc/farmrun/internal/store"
)

func TestShellNavigation(t *testing.T) {
	sh := NewShell(store.DefaultConfig())

	sh.GoTimer()
	if sh.currentView() != viewTimer {
		t.Fatal("GoTimer should switch to the timer view")
	}
	sh.GoHome()
	if sh.currentView() != viewHome {
		t.Fatal("GoHome should switch to the home view")
	}
}

func TestShellResizeSwitchesView(t *testing.T) {
	sh := NewShell(store.DefaultConfig())
	if err := sh.ResizeForView(run.ViewHistory); err != nil {
		t.Fatal(err)
	}
	if sh.currentView() != viewHistory {
		t.Fatal("resize should track the lifecycle view")
	}
}

func TestShellPreferredSizeFromConfig(t *testing.T) {
	cfg := store.DefaultConfig()
	cfg.CustomViewSizes = map[string]store.ViewSize{
		run.ViewTimer: {W: 320, H: 180},
	}
	sh := NewShell(cfg)

	sh.ResizeForView(run.ViewTimer)
	if got := sh.Preferred(); got.W != 320 || got.H != 180 {
		t.Fatalf("preferred = %+v", got)
	}

	// A view without a customization clears the preference.
	sh.ResizeForView(run.ViewHome)
	if got := sh.Preferred(); got.W != 0 || got.H != 0 {
		t.Fatalf("preferred should clear: %+v", got)
	}
}

func TestShellToastExpires(t *testing.T) {
	sh := NewShell(store.DefaultConfig())

	if _, _, ok := sh.activeToast(); ok {
		t.Fatal("no toast should be active initially")
	}

	sh.Toast("saved", toastSuccess)
	text, level, ok := sh.activeToast()
	if !ok || text != "saved" || level != toastSuccess {
		t.Fatalf("toast not visible: %q %v %v", text, level, ok)
	}

	sh.mu.Lock()
	sh.toastUntil = time.Now().Add(-time.Second)
	sh.mu.Unlock()
	if _, _, ok := sh.activeToast(); ok {
		t.Fatal("expired toast should be hidden")
	}
}

func TestFormatMS(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "00:00.0"},
		{-1, "--:--"},
		{math.MaxInt64, "--:--"},
		{500, "00:00.5"},
		{95_400, "01:35.4"},
	}
	for _, c := range cases {
		if got := formatMS(c.ms); got != c.want {
			t.Fatalf("formatMS(%d) = %q, want %q", c.ms, got, c.want)
		}
	}
}

func TestKeyMapOverrides(t *testing.T) {
	k := newKeyMap(map[string]store.KeyBinding{
		"nextRun": {Name: "f5"},
		"pause":   {Name: ""}, // empty overrides are ignored
	})

	if got := k.NextRun.Keys(); len(got) != 1 || got[0] != "f5" {
		t.Fatalf("override not applied: %v", got)
	}
	if got := k.Pause.Keys(); len(got) != 1 || got[0] != " " {
		t.Fatalf("empty override should keep the default: %v", got)
	}
}

func TestLangOf(t *testing.T) {
	cfg := store.DefaultConfig()
	if langOf(cfg) != "EN" {
		t.Fatal("default should be EN")
	}
	cfg.Language = "CN"
	if langOf(cfg) != "CN" {
		t.Fatal("CN config should select CN")
	}
	if langOf(nil) != "EN" {
		t.Fatal("nil config should fall back to EN")
	}
}

// ============================================================
// Wired app behavior
// ============================================================

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := store.DefaultConfig()
	facade := cloud.NewWithFactory(s, logger, nil)
	hist := history.New(s, facade, logger)
	timer := run.NewTimer()
	t.Cleanup(timer.Stop)
	session := run.NewSession(s, logger)
	drops := run.NewDropRecorder()
	scenario := run.NewScenario()
	search := run.NewSearch()
	shell := NewShell(cfg)
	lc := run.NewLifecycle(timer, session, drops, scenario, search, hist, shell, shell, logger)

	return Deps{
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
		Lifecycle: lc,
		Shell:     shell,
	}
}

func TestSyncSuccessClearsLocalSnapshot(t *testing.T) {
	deps := newTestDeps(t)
	err := deps.Store.SaveRun(store.RunRecord{
		ID: "l1", Timestamp: 1000, DateStr: "2026-01-01", SceneID: "The Pit",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := deps.History.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(deps.History.Local()) != 1 {
		t.Fatal("expected a local record before sync")
	}

	app := NewApp(deps)
	_, cmd := app.Update(syncDoneMsg{result: cloud.SyncResult{Success: true, Message: "synced"}})

	if cmd == nil {
		t.Fatal("sync success should schedule a history reload")
	}
	if len(deps.History.Local()) != 0 {
		t.Fatal("local snapshot should be cleared before the reload")
	}
}

func TestTimerViewHonorsPreferredWidth(t *testing.T) {
	deps := newTestDeps(t)
	tm := newTimerModel(deps, newKeyMap(nil))
	tm.setSize(120, 40)
	wide := lipgloss.Width(tm.view())

	deps.Config.CustomViewSizes = map[string]store.ViewSize{
		run.ViewTimer: {W: 60, H: 20},
	}
	if err := deps.Shell.ResizeForView(run.ViewTimer); err != nil {
		t.Fatal(err)
	}
	narrow := lipgloss.Width(tm.view())

	if narrow >= wide {
		t.Fatalf("custom view size should cap panel width: %d >= %d", narrow, wide)
	}
}

func TestTimerStatsShowPausedTotal(t *testing.T) {
	deps := newTestDeps(t)
	tm := newTimerModel(deps, newKeyMap(nil))

	out := tm.renderStats()
	if !strings.Contains(out, "paused") {
		t.Fatal("stats row should show the accumulated paused time")
	}
	if deps.Timer.TotalPaused() != 0 {
		t.Fatal("fresh timer should have no paused time")
	}
}
