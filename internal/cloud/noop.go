package cloud

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/sadopc/farmrun/internal/store"
)

// ErrUnavailable is reported by fallback operations that need a real provider.
var ErrUnavailable = errors.New("cloud sync is not available in this build")

// noopService is the always-present fallback. Every method is a safe no-op.
// Enabled delegates to a feature probe so it reflects provider readiness
// rather than being hardcoded. Records serves the shared snapshot container,
// which the facade seeds from the persisted cloud cache, so remote runs from
// earlier syncs stay visible without a provider.
type noopService struct {
	probe   func() bool
	records *RecordSet
}

func newNoop(probe func() bool, records *RecordSet) *noopService {
	if probe == nil {
		probe = func() bool { return false }
	}
	return &noopService{probe: probe, records: records}
}

func (n *noopService) Enabled() bool { return n.probe() }

func (n *noopService) StartLogin(_ context.Context, _ func(UserInfo), onError func(error)) (string, error) {
	if onError != nil {
		onError(ErrUnavailable)
	}
	return "", ErrUnavailable
}

func (n *noopService) Logout(context.Context) error { return nil }

func (n *noopService) Sync(context.Context, []store.RunRecord, *store.AppConfig, string) (SyncResult, error) {
	return SyncResult{Success: false, Message: ErrUnavailable.Error()}, nil
}

func (n *noopService) Records(_ context.Context, filter store.RunFilter) ([]store.RunRecord, error) {
	if n.records == nil {
		return nil, nil
	}
	snapshot := n.records.Get()
	if filter.SceneID == "" {
		return snapshot, nil
	}
	var out []store.RunRecord
	for _, rec := range snapshot {
		if rec.SceneID == filter.SceneID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (n *noopService) SaveCache([]store.RunRecord) error { return nil }

func (n *noopService) StopPolling() {}

func (n *noopService) CheckLoginStatus(*store.AppConfig) bool { return false }

func (n *noopService) SanitizeUserInfo(u *UserInfo) string { return SanitizeUserInfo(u) }

func (n *noopService) DesanitizeUserInfo(s string) *UserInfo { return DesanitizeUserInfo(s) }

// SanitizeUserInfo encodes user info for persistence in local config.
// Symmetric with DesanitizeUserInfo.
func SanitizeUserInfo(u *UserInfo) string {
	if u == nil {
		return ""
	}
	data, err := json.Marshal(u)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

// DesanitizeUserInfo restores user info persisted by SanitizeUserInfo.
func DesanitizeUserInfo(s string) *UserInfo {
	if s == "" {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil
	}
	var u UserInfo
	if err := json.Unmarshal(data, &u); err != nil {
		return nil
	}
	return &u
}
