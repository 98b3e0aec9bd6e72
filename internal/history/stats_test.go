package history

import (
	"math"
	"testing"

	"github.com/sadopc/farmrun/internal/catalog"
	"github.com/sadopc/farmrun/internal/store"
)

func statRec(scene string, durMS int64, drops ...string) store.RunRecord {
	return store.RunRecord{SceneID: scene, DurationMS: durMS, DateStr: "2026-09-01", Drops: drops}
}

func TestComputeDetailedEmpty(t *testing.T) {
	d := ComputeDetailed(nil)
	if d.TotalRuns != 0 || d.Best != math.MaxInt64 || d.Avg != 0 {
		t.Fatalf("unexpected empty stats: %+v", d)
	}
}

func TestComputeDetailed(t *testing.T) {
	records := []store.RunRecord{
		statRec("The Pit", 90_000, "r30"),
		statRec("The Pit", 120_000),
		{SceneID: "Terror Zone", DurationMS: 150_000, DateStr: "2026-09-01", IsTZ: true, Drops: []string{"u001", "u003"}},
	}

	d := ComputeDetailed(records)
	if d.TotalRuns != 3 || d.TotalTime != 360_000 {
		t.Fatalf("totals wrong: %+v", d)
	}
	if d.Best != 90_000 || d.Worst != 150_000 || d.Avg != 120_000 {
		t.Fatalf("extremes wrong: %+v", d)
	}
	if d.TotalDrops != 3 || d.SpecialRuns != 1 {
		t.Fatalf("drop/special counts wrong: %+v", d)
	}
}

func TestSceneBreakdownOrderedByCount(t *testing.T) {
	records := []store.RunRecord{
		statRec("Travincal", 60_000),
		statRec("The Pit", 90_000),
		statRec("The Pit", 110_000, "r30"),
	}

	out := ComputeSceneBreakdown(records)
	if len(out) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(out))
	}
	if out[0].SceneID != "The Pit" || out[0].Count != 2 {
		t.Fatalf("most-run scene should lead: %+v", out)
	}
	if out[0].AvgTime != 100_000 {
		t.Fatalf("avg wrong: %d", out[0].AvgTime)
	}
	if out[0].Drops != 1 {
		t.Fatalf("drops wrong: %d", out[0].Drops)
	}
}

func TestDropHistoryRecentFirst(t *testing.T) {
	records := []store.RunRecord{
		{SceneID: "The Pit", Timestamp: 2000, DateStr: "2026-09-01", Drops: []string{"u001"}},
		{SceneID: "Travincal", Timestamp: 1000, DateStr: "2026-09-01", Drops: []string{"r30"}},
	}

	entries := ComputeDropHistory(records, catalog.LangEN)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Most recent run's drop first; indexes are chronological.
	if entries[0].ItemName != "Shako" || entries[0].RunIndex != 2 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].ItemName != "Ber Rune" || entries[1].RunIndex != 1 {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}

func TestDropHistorySkipsUnknownItems(t *testing.T) {
	records := []store.RunRecord{
		{SceneID: "The Pit", Timestamp: 1000, DateStr: "2026-09-01", Drops: []string{"bogus-id"}},
	}
	if entries := ComputeDropHistory(records, catalog.LangEN); len(entries) != 0 {
		t.Fatalf("unknown catalog ids should be skipped: %+v", entries)
	}
}

func TestDropHistoryCustomItems(t *testing.T) {
	records := []store.RunRecord{
		{SceneID: "The Pit", Timestamp: 1000, DateStr: "2026-09-01", Drops: []string{"custom:My Charm:2"}},
	}
	entries := ComputeDropHistory(records, catalog.LangEN)
	if len(entries) != 1 || entries[0].ItemName != "My Charm" {
		t.Fatalf("custom drops should resolve: %+v", entries)
	}
}

func TestGrailProgress(t *testing.T) {
	records := []store.RunRecord{
		statRec("The Pit", 60_000, "u001", "u001", "r30"),
		statRec("The Pit", 60_000, "custom:Ring:1"), // not in the catalog
	}

	collected, total, percent := GrailProgress(records)
	if collected != 2 {
		t.Fatalf("collected = %d", collected)
	}
	if total != len(catalog.Items) {
		t.Fatalf("total = %d", total)
	}
	want := int(math.Round(float64(collected) / float64(total) * 100))
	if percent != want {
		t.Fatalf("percent = %d, want %d", percent, want)
	}
}

func TestRunsPerDaySorted(t *testing.T) {
	records := []store.RunRecord{
		{DateStr: "2026-09-01"},
		{DateStr: "2026-08-30"},
		{DateStr: "2026-09-01"},
	}

	days, counts := RunsPerDay(records)
	if len(days) != 2 || days[0] != "2026-08-30" || days[1] != "2026-09-01" {
		t.Fatalf("days wrong: %v", days)
	}
	if counts[0] != 1 || counts[1] != 2 {
		t.Fatalf("counts wrong: %v", counts)
	}
}
