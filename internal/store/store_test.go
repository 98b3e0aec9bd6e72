package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// makeRun builds a valid record offset into the past by the given number of
// seconds.
func makeRun(t *testing.T, sceneID string, secondsAgo int, drops ...string) RunRecord {
	t.Helper()
	ts := time.Now().Add(time.Duration(-secondsAgo) * time.Second)
	return RunRecord{
		ID:         uuid.NewString(),
		Timestamp:  ts.UnixMilli(),
		DateStr:    ts.Format("2006-01-02"),
		SceneID:    sceneID,
		DurationMS: 90_000,
		Drops:      drops,
	}
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/farmrun.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: must succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestDefaultPaths(t *testing.T) {
	db, err := DefaultDBPath()
	if err != nil || db == "" {
		t.Fatalf("db path: %q, %v", db, err)
	}
	logp, err := DefaultLogPath()
	if err != nil || logp == "" {
		t.Fatalf("log path: %q, %v", logp, err)
	}
}

// ============================================================
// Runs
// ============================================================

func TestSaveAndListRuns(t *testing.T) {
	s := newTestStore(t)

	r1 := makeRun(t, "The Pit", 120, "r30")
	r2 := makeRun(t, "Travincal", 60)
	if err := s.SaveRun(r1); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveRun(r2); err != nil {
		t.Fatal(err)
	}

	runs, err := s.ListRuns(RunFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	// Newest first
	if runs[0].ID != r2.ID {
		t.Fatal("runs should be ordered by timestamp descending")
	}
	if len(runs[1].Drops) != 1 || runs[1].Drops[0] != "r30" {
		t.Fatalf("drops not round-tripped: %+v", runs[1].Drops)
	}
}

func TestListRunsSceneFilter(t *testing.T) {
	s := newTestStore(t)
	s.SaveRun(makeRun(t, "The Pit", 10))
	s.SaveRun(makeRun(t, "Travincal", 20))

	runs, err := s.ListRuns(RunFilter{SceneID: "The Pit"})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].SceneID != "The Pit" {
		t.Fatalf("scene filter failed: %+v", runs)
	}
}

func TestListRunsDateFilter(t *testing.T) {
	s := newTestStore(t)

	old := makeRun(t, "The Pit", 10)
	old.DateStr = "2020-01-01"
	s.SaveRun(old)
	s.SaveRun(makeRun(t, "The Pit", 10))

	today := time.Now().Format("2006-01-02")
	runs, err := s.ListRuns(RunFilter{Start: today, End: today})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run today, got %d", len(runs))
	}
}

func TestListRunsEmpty(t *testing.T) {
	s := newTestStore(t)
	runs, err := s.ListRuns(RunFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}
}

func TestSaveRunEmptyDrops(t *testing.T) {
	s := newTestStore(t)
	rec := makeRun(t, "Cow Level", 5)
	s.SaveRun(rec)

	runs, _ := s.ListRuns(RunFilter{})
	if len(runs) != 1 {
		t.Fatal("run not saved")
	}
	if len(runs[0].Drops) != 0 {
		t.Fatalf("expected no drops, got %v", runs[0].Drops)
	}
}

func TestSaveRunSpecialFlag(t *testing.T) {
	s := newTestStore(t)
	rec := makeRun(t, "Terror Zone", 5)
	rec.IsTZ = true
	s.SaveRun(rec)

	runs, _ := s.ListRuns(RunFilter{})
	if !runs[0].IsTZ {
		t.Fatal("special flag lost on round trip")
	}
}

func TestDeleteRun(t *testing.T) {
	s := newTestStore(t)
	rec := makeRun(t, "The Pit", 5)
	s.SaveRun(rec)

	if err := s.DeleteRun(rec.ID); err != nil {
		t.Fatal(err)
	}
	runs, _ := s.ListRuns(RunFilter{})
	if len(runs) != 0 {
		t.Fatal("run should be gone")
	}
}

func TestDeleteRunUnknownID(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeleteRun("no-such-id"); err != nil {
		t.Fatalf("deleting unknown id should not fail: %v", err)
	}
}

func TestCountRuns(t *testing.T) {
	s := newTestStore(t)
	today := time.Now().Format("2006-01-02")

	s.SaveRun(makeRun(t, "The Pit", 10))
	s.SaveRun(makeRun(t, "The Pit", 20))
	s.SaveRun(makeRun(t, "Travincal", 30))

	old := makeRun(t, "The Pit", 40)
	old.DateStr = "2020-01-01"
	s.SaveRun(old)

	n, err := s.CountRuns(today, "The Pit")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 same-day same-scene runs, got %d", n)
	}
}

// ============================================================
// Cloud cache
// ============================================================

func TestCloudCacheReplacedWholesale(t *testing.T) {
	s := newTestStore(t)

	first := []RunRecord{makeRun(t, "The Pit", 10), makeRun(t, "Travincal", 20)}
	if err := s.SaveCloudCache(first); err != nil {
		t.Fatal(err)
	}

	second := []RunRecord{makeRun(t, "Cow Level", 5)}
	if err := s.SaveCloudCache(second); err != nil {
		t.Fatal(err)
	}

	cached, err := s.LoadCloudCache()
	if err != nil {
		t.Fatal(err)
	}
	if len(cached) != 1 || cached[0].ID != second[0].ID {
		t.Fatalf("cache should hold only the latest snapshot: %+v", cached)
	}
}

func TestCloudCacheEmpty(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveCloudCache(nil); err != nil {
		t.Fatal(err)
	}
	cached, err := s.LoadCloudCache()
	if err != nil {
		t.Fatal(err)
	}
	if len(cached) != 0 {
		t.Fatalf("expected empty cache, got %d", len(cached))
	}
}

// ============================================================
// Config
// ============================================================

func TestLoadConfigMissing(t *testing.T) {
	s := newTestStore(t)
	cfg, err := s.LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg != nil {
		t.Fatal("expected nil config before first save")
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	s := newTestStore(t)

	cfg := DefaultConfig()
	cfg.Language = "CN"
	cfg.ThemeOpacity = 80
	cfg.CustomViewSizes = map[string]ViewSize{"TIMER": {W: 300, H: 400}}
	if err := s.SaveConfig(cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if loaded == nil {
		t.Fatal("expected saved config")
	}
	if loaded.Language != "CN" || loaded.ThemeOpacity != 80 {
		t.Fatalf("config not round-tripped: %+v", loaded)
	}
	if loaded.CustomViewSizes["TIMER"].W != 300 {
		t.Fatalf("view sizes lost: %+v", loaded.CustomViewSizes)
	}
}

func TestSaveConfigOverwrites(t *testing.T) {
	s := newTestStore(t)

	cfg := DefaultConfig()
	s.SaveConfig(cfg)
	cfg.Theme = "light"
	s.SaveConfig(cfg)

	loaded, _ := s.LoadConfig()
	if loaded.Theme != "light" {
		t.Fatalf("expected light, got %s", loaded.Theme)
	}
}

func TestResetConfig(t *testing.T) {
	s := newTestStore(t)

	cfg := DefaultConfig()
	cfg.Language = "CN"
	s.SaveConfig(cfg)

	reset, err := s.ResetConfig()
	if err != nil {
		t.Fatal(err)
	}
	if reset.Language != "EN" {
		t.Fatalf("reset should restore defaults, got %+v", reset)
	}

	loaded, _ := s.LoadConfig()
	if loaded.Language != "EN" {
		t.Fatal("reset should persist defaults")
	}
}

// ============================================================
// Edge cases
// ============================================================

func TestManyRunsOrdering(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 50; i++ {
		rec := makeRun(t, "The Pit", i+1)
		rec.ID = fmt.Sprintf("run-%02d", i)
		s.SaveRun(rec)
	}

	runs, _ := s.ListRuns(RunFilter{})
	if len(runs) != 50 {
		t.Fatalf("expected 50 runs, got %d", len(runs))
	}
	for i := 1; i < len(runs); i++ {
		if runs[i-1].Timestamp < runs[i].Timestamp {
			t.Fatal("runs out of order")
		}
	}
}

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
