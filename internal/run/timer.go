package run

import (
	"sync"
	"time"
)

// TickInterval is the cadence at which elapsed time is re-evaluated.
const TickInterval = 50 * time.Millisecond

// Timer tracks wall-clock time for the active run. Elapsed time excludes
// every interval during which the pause predicate reported true. The ticker
// goroutine is the only writer of elapsed and of the pause accounting.
type Timer struct {
	mu          sync.Mutex
	running     bool
	userPaused  bool
	startTime   time.Time
	totalPaused time.Duration
	pauseStart  time.Time // zero while not paused
	elapsed     time.Duration
	tickPaused  bool
	stopTick    chan struct{}
}

func NewTimer() *Timer {
	return &Timer{}
}

// Start resets all timer state and transitions to running. Starting while
// already running restarts.
func (t *Timer) Start() {
	t.Stop()

	t.mu.Lock()
	t.userPaused = false
	t.startTime = time.Now()
	t.totalPaused = 0
	t.pauseStart = time.Time{}
	t.elapsed = 0
	t.tickPaused = false
	t.running = true
	t.mu.Unlock()
}

// Stop halts ticking and leaves the running state. Safe to call repeatedly.
func (t *Timer) Stop() {
	t.mu.Lock()
	if t.stopTick != nil {
		close(t.stopTick)
		t.stopTick = nil
	}
	t.running = false
	t.mu.Unlock()
}

// StartTicker begins periodic elapsed-time updates. The predicate is
// evaluated at every tick; while it reports true, elapsed is frozen and the
// paused interval is accumulated on the resume transition.
func (t *Timer) StartTicker(isPaused func() bool) {
	t.mu.Lock()
	if t.stopTick != nil {
		close(t.stopTick)
	}
	stop := make(chan struct{})
	t.stopTick = stop
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				t.tick(isPaused())
			}
		}
	}()
}

func (t *Timer) tick(paused bool) {
	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	if paused && !t.tickPaused {
		t.pauseStart = now
	} else if !paused && t.tickPaused && !t.pauseStart.IsZero() {
		t.totalPaused += now.Sub(t.pauseStart)
		t.pauseStart = time.Time{}
	}
	t.tickPaused = paused

	if !paused {
		t.elapsed = now.Sub(t.startTime) - t.totalPaused
	}
}

// Elapsed returns the run time accrued so far, frozen while paused.
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Timer) UserPaused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.userPaused
}

func (t *Timer) SetUserPaused(paused bool) {
	t.mu.Lock()
	t.userPaused = paused
	t.mu.Unlock()
}

// TotalPaused reports the accumulated paused time, for display.
func (t *Timer) TotalPaused() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalPaused
}
