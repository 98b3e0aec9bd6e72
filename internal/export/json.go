package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/farmrun/internal/catalog"
	"github.com/sadopc/farmrun/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Runs       []jsonRun   `json:"runs"`
}

type jsonRun struct {
	ID         string   `json:"id"`
	Timestamp  int64    `json:"timestamp"`
	Date       string   `json:"date"`
	Scene      string   `json:"scene"`
	DurationMS int64    `json:"duration_ms"`
	Duration   string   `json:"duration"`
	Drops      []string `json:"drops,omitempty"`
	SpecialRun bool     `json:"special_run"`
}

// ToJSON writes the run history to a JSON file, drop ids resolved to
// display names.
func ToJSON(records []store.RunRecord, lang, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(records),
	}

	for _, rec := range records {
		drops := make([]string, 0, len(rec.Drops))
		for _, id := range rec.Drops {
			drops = append(drops, catalog.ItemName(id, lang))
		}
		export.Runs = append(export.Runs, jsonRun{
			ID:         rec.ID,
			Timestamp:  rec.Timestamp,
			Date:       rec.DateStr,
			Scene:      catalog.SceneName(rec.SceneID, lang),
			DurationMS: rec.DurationMS,
			Duration:   formatDuration(rec.DurationMS),
			Drops:      drops,
			SpecialRun: rec.IsTZ,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
