package store

// RunRecord is a single completed run. Records are immutable once saved and
// are removed only by explicit deletion.
type RunRecord struct {
	ID         string   `json:"id"`
	Timestamp  int64    `json:"timestamp"` // milliseconds since epoch
	DateStr    string   `json:"date_str"`  // YYYY-MM-DD, grouping/filter key
	SceneID    string   `json:"scene_id"`
	DurationMS int64    `json:"duration_ms"`
	Drops      []string `json:"drops"`
	IsTZ       bool     `json:"is_tz"`
}

// RunFilter narrows run queries. Zero-value fields are unfiltered; the
// "all scenes" sentinel is translated by callers before it reaches the store.
type RunFilter struct {
	Start   string `json:"startStr,omitempty"` // inclusive YYYY-MM-DD
	End     string `json:"endStr,omitempty"`   // inclusive YYYY-MM-DD
	SceneID string `json:"sceneId,omitempty"`
}

// ViewSize is a user-customized window size for one view.
type ViewSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

// KeyBinding is a recorded keyboard shortcut.
type KeyBinding struct {
	Keycode int    `json:"keycode"`
	Alt     bool   `json:"alt"`
	Ctrl    bool   `json:"ctrl"`
	Shift   bool   `json:"shift"`
	Name    string `json:"name"`
}

// AppConfig is the persisted application configuration.
type AppConfig struct {
	Language        string                `json:"language,omitempty"`
	Theme           string                `json:"theme,omitempty"`
	ThemeOpacity    int                   `json:"themeOpacity,omitempty"`
	LastSyncTime    string                `json:"lastSyncTime,omitempty"`
	CloudUserInfo   string                `json:"cloudUserInfo,omitempty"` // sanitized blob
	Shortcuts       map[string]KeyBinding `json:"shortcuts,omitempty"`
	CustomViewSizes map[string]ViewSize   `json:"customViewSizes,omitempty"`
}

// DefaultConfig returns the configuration used before the user saved one.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Language:     "EN",
		Theme:        "dark",
		ThemeOpacity: 95,
	}
}
