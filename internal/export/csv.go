package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/sadopc/farmrun/internal/catalog"
	"github.com/sadopc/farmrun/internal/store"
)

// ToCSV writes the run history to a CSV file.
func ToCSV(records []store.RunRecord, lang, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Date", "Scene", "Duration (ms)", "Duration", "Drops", "Special"}); err != nil {
		return err
	}

	for _, rec := range records {
		drops := make([]string, 0, len(rec.Drops))
		for _, id := range rec.Drops {
			drops = append(drops, catalog.ItemName(id, lang))
		}
		special := ""
		if rec.IsTZ {
			special = "yes"
		}

		row := []string{
			rec.ID,
			rec.DateStr,
			catalog.SceneName(rec.SceneID, lang),
			fmt.Sprintf("%d", rec.DurationMS),
			formatDuration(rec.DurationMS),
			strings.Join(drops, "; "),
			special,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// formatDuration renders milliseconds as MM:SS.d.
func formatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	m := ms / 60000
	s := (ms % 60000) / 1000
	tenths := (ms % 1000) / 100
	return fmt.Sprintf("%02d:%02d.%d", m, s, tenths)
}
