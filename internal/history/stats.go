package history

import (
	"math"
	"sort"

	"github.com/sadopc/farmrun/internal/catalog"
	"github.com/sadopc/farmrun/internal/store"
)

// Detailed are aggregate statistics over a record snapshot. Best is
// math.MaxInt64 while the snapshot is empty.
type Detailed struct {
	TotalRuns  int
	TotalTime  int64
	Best       int64
	Worst      int64
	Avg        int64
	TotalDrops int
	SpecialRuns int
}

// SceneBreakdown is per-scene aggregate statistics.
type SceneBreakdown struct {
	SceneID   string
	Count     int
	Drops     int
	TotalTime int64
	AvgTime   int64
}

// DropEntry is one drop with display metadata, for the drop history list.
type DropEntry struct {
	RunIndex  int
	ItemName  string
	Color     string
	SceneName string
	IsTZ      bool
}

// ComputeDetailed folds a snapshot into overall statistics.
func ComputeDetailed(records []store.RunRecord) Detailed {
	d := Detailed{Best: math.MaxInt64}
	for _, rec := range records {
		d.TotalRuns++
		d.TotalTime += rec.DurationMS
		if rec.DurationMS < d.Best {
			d.Best = rec.DurationMS
		}
		if rec.DurationMS > d.Worst {
			d.Worst = rec.DurationMS
		}
		d.TotalDrops += len(rec.Drops)
		if rec.IsTZ {
			d.SpecialRuns++
		}
	}
	if d.TotalRuns > 0 {
		d.Avg = d.TotalTime / int64(d.TotalRuns)
	}
	return d
}

// ComputeSceneBreakdown groups a snapshot by scene, ordered by run count.
func ComputeSceneBreakdown(records []store.RunRecord) []SceneBreakdown {
	byScene := make(map[string]*SceneBreakdown)
	var order []string
	for _, rec := range records {
		b, ok := byScene[rec.SceneID]
		if !ok {
			b = &SceneBreakdown{SceneID: rec.SceneID}
			byScene[rec.SceneID] = b
			order = append(order, rec.SceneID)
		}
		b.Count++
		b.Drops += len(rec.Drops)
		b.TotalTime += rec.DurationMS
	}

	out := make([]SceneBreakdown, 0, len(order))
	for _, id := range order {
		b := byScene[id]
		b.AvgTime = b.TotalTime / int64(b.Count)
		out = append(out, *b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// ComputeDropHistory lists every drop with display metadata, most recent run
// first. Run indexes are chronological.
func ComputeDropHistory(records []store.RunRecord, lang string) []DropEntry {
	sorted := make([]store.RunRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	var entries []DropEntry
	for idx, rec := range sorted {
		for _, id := range rec.Drops {
			item := catalog.LookupItem(id)
			if item == nil {
				continue
			}
			name := item.Name
			if lang == catalog.LangZH {
				name = item.NameZH
			}
			entries = append(entries, DropEntry{
				RunIndex:  idx + 1,
				ItemName:  name,
				Color:     item.Color,
				SceneName: catalog.SceneName(rec.SceneID, lang),
				IsTZ:      rec.IsTZ,
			})
		}
	}
	// Reverse to most-recent-first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}

// CollectedSet returns the distinct item ids ever dropped.
func CollectedSet(records []store.RunRecord) map[string]bool {
	set := make(map[string]bool)
	for _, rec := range records {
		for _, id := range rec.Drops {
			set[id] = true
		}
	}
	return set
}

// GrailProgress reports catalog collection progress as collected/total and a
// rounded percentage.
func GrailProgress(records []store.RunRecord) (collected, total, percent int) {
	set := CollectedSet(records)
	collected = 0
	for _, item := range catalog.Items {
		if set[item.ID] {
			collected++
		}
	}
	total = len(catalog.Items)
	if total > 0 {
		percent = int(math.Round(float64(collected) / float64(total) * 100))
	}
	return collected, total, percent
}

// RunsPerDay counts runs per calendar day, ordered by date ascending.
func RunsPerDay(records []store.RunRecord) ([]string, []int) {
	byDay := make(map[string]int)
	for _, rec := range records {
		byDay[rec.DateStr]++
	}
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	counts := make([]int, len(days))
	for i, day := range days {
		counts[i] = byDay[day]
	}
	return days, counts
}
