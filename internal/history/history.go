// Package history owns locally persisted run records and reconciles them
// with the cloud snapshot into one deduplicated, sorted view.
package history

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/sadopc/farmrun/internal/cloud"
	"github.com/sadopc/farmrun/internal/store"
)

// FilterAllScenes is the UI sentinel meaning "no scene filter".
const FilterAllScenes = "all"

// RunLister is the slice of the persistence boundary history reads from.
type RunLister interface {
	ListRuns(f store.RunFilter) ([]store.RunRecord, error)
	DeleteRun(id string) error
}

// Merge reconciles local and cloud records: records sharing a timestamp are
// the same logical run, and the cloud-marked one wins regardless of encounter
// order (it may carry canonicalized drop snapshots). The result is sorted
// most recent first.
func Merge(local, cloudRecords []store.RunRecord) []store.RunRecord {
	unique := make(map[int64]store.RunRecord, len(local)+len(cloudRecords))
	for _, rec := range append(append([]store.RunRecord(nil), local...), cloudRecords...) {
		existing, ok := unique[rec.Timestamp]
		if !ok || (cloudMarked(rec.ID) && !cloudMarked(existing.ID)) {
			unique[rec.Timestamp] = rec
		}
	}

	merged := make([]store.RunRecord, 0, len(unique))
	for _, rec := range unique {
		merged = append(merged, rec)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Timestamp > merged[j].Timestamp })
	return merged
}

func cloudMarked(id string) bool {
	return strings.HasPrefix(id, cloud.CloudIDPrefix)
}

// History merges the local store with the cloud facade's record snapshot.
// The merged view is derived, never stored.
type History struct {
	runs   RunLister
	cloud  *cloud.Facade
	logger *slog.Logger

	mu     sync.Mutex
	local  []store.RunRecord
	filter store.RunFilter
}

func New(runs RunLister, facade *cloud.Facade, logger *slog.Logger) *History {
	return &History{runs: runs, cloud: facade, logger: logger}
}

// Filter returns the active history filter.
func (h *History) Filter() store.RunFilter {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.filter
}

// SetFilter replaces the active filter. Callers reload afterwards.
func (h *History) SetFilter(f store.RunFilter) {
	h.mu.Lock()
	h.filter = f
	h.mu.Unlock()
}

// Records recomputes the merged, deduplicated, sorted view from the current
// local and cloud snapshots. The cloud container always holds the full remote
// snapshot; the scene filter narrows it here, at read time.
func (h *History) Records() []store.RunRecord {
	h.mu.Lock()
	local := h.local
	scene := h.filter.SceneID
	h.mu.Unlock()

	cloudRecs := h.cloud.Records().Get()
	if scene != "" && scene != FilterAllScenes {
		var narrowed []store.RunRecord
		for _, rec := range cloudRecs {
			if rec.SceneID == scene {
				narrowed = append(narrowed, rec)
			}
		}
		cloudRecs = narrowed
	}
	return Merge(local, cloudRecs)
}

// Load refreshes both sources. The cloud provider's lazy load is awaited
// first, then the local and cloud queries run concurrently and both complete
// before either snapshot is replaced, so readers never observe a
// half-updated merge. The local set is replaced wholesale.
func (h *History) Load(ctx context.Context) error {
	if err := h.cloud.EnsureReady(ctx); err != nil {
		return err
	}

	filter := h.Filter()
	if filter.SceneID == FilterAllScenes {
		filter.SceneID = ""
	}
	// The cloud query is never scene-filtered: the shared container must keep
	// the full remote snapshot, and Records narrows it at read time.
	cloudFilter := filter
	cloudFilter.SceneID = ""

	var (
		wg        sync.WaitGroup
		local     []store.RunRecord
		remote    []store.RunRecord
		localErr  error
		remoteErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		local, localErr = h.runs.ListRuns(filter)
	}()
	go func() {
		defer wg.Done()
		remote, remoteErr = h.cloud.CloudRecords(ctx, cloudFilter)
	}()
	wg.Wait()

	if localErr != nil {
		return localErr
	}
	h.mu.Lock()
	h.local = local
	h.mu.Unlock()
	if remoteErr != nil {
		// Cloud degradation keeps the local refresh and the last good
		// remote snapshot.
		h.logger.Warn("load cloud records", "error", remoteErr)
		return nil
	}
	// Shared container: every facade reference observes the update.
	h.cloud.Records().Set(remote)
	return nil
}

// Delete removes a record by id and unconditionally reloads; consistency
// over latency.
func (h *History) Delete(ctx context.Context, id string) error {
	if err := h.runs.DeleteRun(id); err != nil {
		return err
	}
	return h.Load(ctx)
}

// ClearLocal drops the local snapshot (used right before a sync refresh).
func (h *History) ClearLocal() {
	h.mu.Lock()
	h.local = nil
	h.mu.Unlock()
}

// Local returns the current local snapshot.
func (h *History) Local() []store.RunRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.local
}
