// Package cloud exposes a stable facade over an optional remote sync
// implementation. The real provider is registered by optional builds and
// loaded lazily; without one, a safe no-op fallback serves every call.
package cloud

import (
	"context"
	"sync"

	"github.com/sadopc/farmrun/internal/store"
)

// CloudIDPrefix marks record ids of remote origin. History uses it as the
// merge tie-break signal.
const CloudIDPrefix = "cloud_"

// UserInfo identifies a logged-in cloud user.
type UserInfo struct {
	UID       string `json:"uid"`
	OpenID    string `json:"openid"`
	NickName  string `json:"nickName"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// State is the shared authentication/sync state. Its container identity is
// stable across the provider swap.
type State struct {
	LoggedIn  bool
	UserInfo  *UserInfo
	QRCodeURL string
	Loading   bool
	Syncing   bool
}

// SyncResult reports the outcome of one sync operation. Disabled-feature
// calls resolve to Success=false rather than an error.
type SyncResult struct {
	Success    bool
	Message    string
	Uploaded   int
	Downloaded int
}

// Service is the remote sync provider boundary. Concrete transport is up to
// the registered implementation.
type Service interface {
	Enabled() bool
	StartLogin(ctx context.Context, onSuccess func(UserInfo), onError func(error)) (qrCodeURL string, err error)
	Logout(ctx context.Context) error
	Sync(ctx context.Context, localRuns []store.RunRecord, cfg *store.AppConfig, openID string) (SyncResult, error)
	Records(ctx context.Context, filter store.RunFilter) ([]store.RunRecord, error)
	SaveCache(records []store.RunRecord) error
	StopPolling()
	CheckLoginStatus(cfg *store.AppConfig) bool
	SanitizeUserInfo(u *UserInfo) string
	DesanitizeUserInfo(s string) *UserInfo
}

// Deps hands a provider the shared state containers so it mutates the same
// objects every facade caller observes.
type Deps struct {
	State    *StateRef
	Records  *RecordSet
	Cooldown *Cooldown
	Store    *store.Store
}

// Factory constructs the real provider. Optional builds register one at init.
type Factory func(deps Deps) (Service, error)

var (
	registryMu sync.Mutex
	registered Factory
)

// Register installs the provider factory. The default build never calls it.
func Register(f Factory) {
	registryMu.Lock()
	registered = f
	registryMu.Unlock()
}

func registeredFactory() Factory {
	registryMu.Lock()
	defer registryMu.Unlock()
	return registered
}

// StateRef is the identity-stable container for State.
type StateRef struct {
	mu    sync.Mutex
	state State
}

func (r *StateRef) Get() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Update mutates the shared state under the container lock.
func (r *StateRef) Update(fn func(*State)) {
	r.mu.Lock()
	fn(&r.state)
	r.mu.Unlock()
}

// RecordSet is the identity-stable container for the cloud record snapshot.
type RecordSet struct {
	mu      sync.Mutex
	records []store.RunRecord
}

func (r *RecordSet) Get() []store.RunRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records
}

func (r *RecordSet) Set(records []store.RunRecord) {
	r.mu.Lock()
	r.records = records
	r.mu.Unlock()
}

// Cooldown is the identity-stable container for the sync cooldown countdown,
// in whole seconds.
type Cooldown struct {
	mu        sync.Mutex
	remaining int
}

func (c *Cooldown) Get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Cooldown) Set(seconds int) {
	c.mu.Lock()
	c.remaining = seconds
	c.mu.Unlock()
}
