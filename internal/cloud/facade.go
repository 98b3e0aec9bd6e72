package cloud

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sadopc/farmrun/internal/store"
)

// SyncCooldown is the minimum interval between sync operations.
const SyncCooldown = 60 * time.Second

// Facade is the stable surface callers hold while the underlying provider is
// loaded asynchronously. The three shared state containers are created once
// and never replaced, so subscriptions taken before the swap keep observing
// the live state. Every method dereferences the provider slot at call time.
type Facade struct {
	logger *slog.Logger

	state    *StateRef
	records  *RecordSet
	cooldown *Cooldown

	mu         sync.Mutex
	current    Service
	factory    Factory
	db         *store.Store
	loadFailed bool

	loadOnce sync.Once
	loaded   chan struct{}
}

// New builds a facade around the registered factory (if any). db is handed to
// the provider for its local record cache.
func New(db *store.Store, logger *slog.Logger) *Facade {
	return NewWithFactory(db, logger, registeredFactory())
}

// NewWithFactory is New with an explicit factory, used by tests.
func NewWithFactory(db *store.Store, logger *slog.Logger, factory Factory) *Facade {
	f := &Facade{
		logger:   logger,
		state:    &StateRef{},
		records:  &RecordSet{},
		cooldown: &Cooldown{},
		factory:  factory,
		db:       db,
		loaded:   make(chan struct{}),
	}
	f.current = newNoop(f.readyProbe, f.records)
	return f
}

// readyProbe reports whether a real provider could still become available.
func (f *Facade) readyProbe() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.factory != nil && !f.loadFailed
}

// State returns the shared state container. Its identity never changes.
func (f *Facade) State() *StateRef { return f.state }

// Records returns the shared cloud record snapshot container.
func (f *Facade) Records() *RecordSet { return f.records }

// CooldownRef returns the shared sync-cooldown container.
func (f *Facade) CooldownRef() *Cooldown { return f.cooldown }

func (f *Facade) service() Service {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// EnsureReady triggers the lazy provider load on first call and waits for the
// attempt to settle. At most one load runs process-wide; concurrent callers
// wait on the same outcome. Absence of the optional provider is not an error.
func (f *Facade) EnsureReady(ctx context.Context) error {
	f.loadOnce.Do(func() {
		go f.load()
	})
	select {
	case <-f.loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Facade) load() {
	defer close(f.loaded)

	f.mu.Lock()
	factory := f.factory
	f.mu.Unlock()

	if factory == nil {
		f.logger.Debug("cloud provider not present, using fallback")
		f.markFailed()
		f.seedFromCache()
		return
	}

	svc, err := factory(Deps{State: f.state, Records: f.records, Cooldown: f.cooldown, Store: f.db})
	if err != nil {
		// Expected in builds without the optional module.
		f.logger.Warn("cloud provider failed to load, using fallback", "error", err)
		f.markFailed()
		f.seedFromCache()
		return
	}

	f.mu.Lock()
	f.current = svc
	f.mu.Unlock()
	f.logger.Debug("cloud provider loaded")
}

func (f *Facade) markFailed() {
	f.mu.Lock()
	f.loadFailed = true
	f.mu.Unlock()
}

// seedFromCache publishes the persisted cloud cache through the shared record
// container, so previously synced remote runs stay visible offline.
func (f *Facade) seedFromCache() {
	if f.db == nil {
		return
	}
	cached, err := f.db.LoadCloudCache()
	if err != nil {
		f.logger.Warn("load cloud cache", "error", err)
		return
	}
	if len(cached) > 0 {
		f.records.Set(cached)
	}
}

// Enabled reports whether cloud sync is usable, via the current provider.
func (f *Facade) Enabled() bool { return f.service().Enabled() }

// StartLogin begins the login flow on the current provider.
func (f *Facade) StartLogin(ctx context.Context, onSuccess func(UserInfo), onError func(error)) (string, error) {
	return f.service().StartLogin(ctx, onSuccess, onError)
}

// Logout ends the session on the current provider.
func (f *Facade) Logout(ctx context.Context) error {
	return f.service().Logout(ctx)
}

// Sync uploads local runs and downloads remote ones. While disabled it
// resolves to a structured failure, never an exception-like error.
func (f *Facade) Sync(ctx context.Context, localRuns []store.RunRecord, cfg *store.AppConfig, openID string) (SyncResult, error) {
	return f.service().Sync(ctx, localRuns, cfg, openID)
}

// CloudRecords queries the remote snapshot through the current provider.
func (f *Facade) CloudRecords(ctx context.Context, filter store.RunFilter) ([]store.RunRecord, error) {
	return f.service().Records(ctx, filter)
}

// SaveCache persists remote records into the local cloud cache.
func (f *Facade) SaveCache(records []store.RunRecord) error {
	return f.service().SaveCache(records)
}

// StopPolling halts any provider-side background polling.
func (f *Facade) StopPolling() { f.service().StopPolling() }

// CheckLoginStatus restores login state from persisted config.
func (f *Facade) CheckLoginStatus(cfg *store.AppConfig) bool {
	loggedIn := f.service().CheckLoginStatus(cfg)
	if loggedIn && cfg != nil {
		if u := f.service().DesanitizeUserInfo(cfg.CloudUserInfo); u != nil {
			f.state.Update(func(s *State) {
				s.LoggedIn = true
				s.UserInfo = u
			})
		}
	}
	return loggedIn
}

// SanitizeUserInfo encodes user info for config storage via the provider.
func (f *Facade) SanitizeUserInfo(u *UserInfo) string {
	return f.service().SanitizeUserInfo(u)
}

// DesanitizeUserInfo decodes user info stored in config via the provider.
func (f *Facade) DesanitizeUserInfo(s string) *UserInfo {
	return f.service().DesanitizeUserInfo(s)
}

// CalcCooldown recomputes the remaining sync cooldown from the last sync
// timestamp in config and publishes it to the shared container.
func (f *Facade) CalcCooldown(cfg *store.AppConfig) int {
	remaining := 0
	if cfg != nil && cfg.LastSyncTime != "" {
		if last, err := time.Parse(time.RFC3339, cfg.LastSyncTime); err == nil {
			left := SyncCooldown - time.Since(last)
			if left > 0 {
				remaining = int(left.Seconds() + 0.5)
			}
		}
	}
	f.cooldown.Set(remaining)
	return remaining
}
