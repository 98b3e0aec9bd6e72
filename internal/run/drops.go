package run

import "sync"

// SessionDrop is one recorded drop with the run it fell in.
type SessionDrop struct {
	ItemID    string
	RunNumber int
}

// DropRecorder tracks items collected during the current run and across the
// whole session. The session log is ordered most-recent-first; the per-run
// list keeps recording order. Safe for concurrent use; accessors return
// copies so the view never shares a backing array with an in-flight append.
type DropRecorder struct {
	mu         sync.Mutex
	current    []string
	sessionLog []SessionDrop
}

func NewDropRecorder() *DropRecorder {
	return &DropRecorder{}
}

// AddDrop records a drop for the current run and the session log.
func (d *DropRecorder) AddDrop(itemID string, runNumber int) {
	d.mu.Lock()
	d.current = append(d.current, itemID)
	d.sessionLog = append([]SessionDrop{{ItemID: itemID, RunNumber: runNumber}}, d.sessionLog...)
	d.mu.Unlock()
}

// Current returns the current run's drops in recording order.
func (d *DropRecorder) Current() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.current))
	copy(out, d.current)
	return out
}

// SessionLog returns the full session drop log, most recent first.
func (d *DropRecorder) SessionLog() []SessionDrop {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]SessionDrop, len(d.sessionLog))
	copy(out, d.sessionLog)
	return out
}

// ResetCurrent clears the per-run list for a new run.
func (d *DropRecorder) ResetCurrent() {
	d.mu.Lock()
	d.current = nil
	d.mu.Unlock()
}

// ResetSession clears the session log for a new scene.
func (d *DropRecorder) ResetSession() {
	d.mu.Lock()
	d.sessionLog = nil
	d.mu.Unlock()
}
