package run

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/farmrun/internal/store"
)

const (
	// MinRunDuration is the minimum viable run length; anything shorter is
	// treated as an accidental trigger and discarded.
	MinRunDuration = 100 * time.Millisecond
	// SessionSaveThreshold governs whether an unfinished run is still worth
	// persisting when the session ends.
	SessionSaveThreshold = 1000 * time.Millisecond
)

// RunStore is the slice of the persistence boundary the session needs.
type RunStore interface {
	SaveRun(rec store.RunRecord) error
	CountRuns(dateStr, sceneID string) (int, error)
}

// SessionStats are aggregate statistics over the current session. Best is
// math.MaxInt64 until the first completed run.
type SessionStats struct {
	Best      int64 // milliseconds
	Avg       int64
	RunCount  int
	TotalTime int64
}

// Session tracks session-scoped statistics and constructs run records.
// Aggregate state is mutex-guarded; lifecycle actions run on command
// goroutines while the view reads stats concurrently.
type Session struct {
	runs   RunStore
	logger *slog.Logger

	mu            sync.Mutex
	dailyRunCount int
	stats         SessionStats
}

func NewSession(runs RunStore, logger *slog.Logger) *Session {
	return &Session{
		runs:          runs,
		logger:        logger,
		dailyRunCount: 1,
		stats:         SessionStats{Best: math.MaxInt64},
	}
}

// ResetStats clears session aggregates for a newly selected scene.
func (s *Session) ResetStats() {
	s.mu.Lock()
	s.stats = SessionStats{Best: math.MaxInt64}
	s.mu.Unlock()
}

func (s *Session) Stats() SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Session) DailyRunCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dailyRunCount
}

func (s *Session) IncrementDailyRunCount() {
	s.mu.Lock()
	s.dailyRunCount++
	s.mu.Unlock()
}

// LoadDailyRunCount seeds the daily counter from the store: same-day
// same-scene records plus one. Best effort; defaults to 1 on failure.
func (s *Session) LoadDailyRunCount(sceneID string) {
	today := time.Now().Format("2006-01-02")
	n, err := s.runs.CountRuns(today, sceneID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn("load daily run count", "scene", sceneID, "error", err)
		s.dailyRunCount = 1
		return
	}
	s.dailyRunCount = n + 1
}

// IsValidRunDuration reports whether a run is long enough to count at all.
func (s *Session) IsValidRunDuration(d time.Duration) bool {
	return d >= MinRunDuration
}

// MeetsSessionSaveThreshold reports whether an in-progress run should still
// be persisted when the session ends.
func (s *Session) MeetsSessionSaveThreshold(d time.Duration) bool {
	return d > SessionSaveThreshold
}

// UpdateStats folds a completed run into the session aggregates. Callers must
// have validated the duration first.
func (s *Session) UpdateStats(d time.Duration) {
	ms := d.Milliseconds()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.RunCount++
	s.stats.TotalTime += ms
	s.stats.Avg = s.stats.TotalTime / int64(s.stats.RunCount)
	if ms < s.stats.Best {
		s.stats.Best = ms
	}
}

// NewRecord builds an immutable run record with a fresh id and the current
// timestamp. The drops slice is copied.
func (s *Session) NewRecord(sceneID string, d time.Duration, drops []string, isTZ bool) store.RunRecord {
	now := time.Now()
	copied := make([]string, len(drops))
	copy(copied, drops)
	return store.RunRecord{
		ID:         uuid.NewString(),
		Timestamp:  now.UnixMilli(),
		DateStr:    now.Format("2006-01-02"),
		SceneID:    sceneID,
		DurationMS: d.Milliseconds(),
		Drops:      copied,
		IsTZ:       isTZ,
	}
}

// SaveRun persists a record. Failures propagate; the lifecycle decides
// whether to continue.
func (s *Session) SaveRun(rec store.RunRecord) error {
	return s.runs.SaveRun(rec)
}
