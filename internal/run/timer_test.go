package run

import (
	"sync/atomic"
	"testing"
	"time"
)

func never() bool { return false }

func TestTimerAccruesElapsed(t *testing.T) {
	tm := NewTimer()
	tm.Start()
	tm.StartTicker(never)
	defer tm.Stop()

	time.Sleep(300 * time.Millisecond)

	got := tm.Elapsed()
	if got < 200*time.Millisecond || got > 500*time.Millisecond {
		t.Fatalf("elapsed out of range: %v", got)
	}
}

func TestTimerFrozenWhilePaused(t *testing.T) {
	var paused atomic.Bool
	tm := NewTimer()
	tm.Start()
	tm.StartTicker(paused.Load)
	defer tm.Stop()

	time.Sleep(200 * time.Millisecond)
	paused.Store(true)
	// Let the ticker observe the transition.
	time.Sleep(2 * TickInterval)

	frozen := tm.Elapsed()
	time.Sleep(300 * time.Millisecond)
	if tm.Elapsed() != frozen {
		t.Fatalf("elapsed advanced while paused: %v -> %v", frozen, tm.Elapsed())
	}
}

func TestTimerResumeExcludesPausedTime(t *testing.T) {
	var paused atomic.Bool
	tm := NewTimer()
	tm.Start()
	tm.StartTicker(paused.Load)
	defer tm.Stop()

	time.Sleep(200 * time.Millisecond)
	paused.Store(true)
	time.Sleep(300 * time.Millisecond)
	paused.Store(false)
	time.Sleep(200 * time.Millisecond)

	got := tm.Elapsed()
	// Roughly 400ms of unpaused time; the 300ms pause must not count.
	if got < 300*time.Millisecond || got > 600*time.Millisecond {
		t.Fatalf("paused time leaked into elapsed: %v", got)
	}
	if tm.TotalPaused() < 200*time.Millisecond {
		t.Fatalf("paused accounting too low: %v", tm.TotalPaused())
	}
}

func TestTimerStopIdempotent(t *testing.T) {
	tm := NewTimer()
	tm.Start()
	tm.StartTicker(never)

	tm.Stop()
	tm.Stop()
	tm.Stop()

	if tm.Running() {
		t.Fatal("timer should not be running")
	}
}

func TestTimerStartResets(t *testing.T) {
	tm := NewTimer()
	tm.Start()
	tm.StartTicker(never)
	time.Sleep(150 * time.Millisecond)
	tm.SetUserPaused(true)

	tm.Start()
	defer tm.Stop()

	if tm.Elapsed() != 0 {
		t.Fatalf("elapsed should reset on start, got %v", tm.Elapsed())
	}
	if tm.UserPaused() {
		t.Fatal("user pause should reset on start")
	}
	if !tm.Running() {
		t.Fatal("timer should be running after start")
	}
}

func TestTimerElapsedFrozenAfterStop(t *testing.T) {
	tm := NewTimer()
	tm.Start()
	tm.StartTicker(never)
	time.Sleep(150 * time.Millisecond)
	tm.Stop()

	frozen := tm.Elapsed()
	time.Sleep(150 * time.Millisecond)
	if tm.Elapsed() != frozen {
		t.Fatal("elapsed must not advance after stop")
	}
}
