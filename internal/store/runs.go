package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// SaveRun persists one record. The id must be unique.
func (s *Store) SaveRun(rec RunRecord) error {
	drops, err := json.Marshal(rec.Drops)
	if err != nil {
		return fmt.Errorf("marshal drops: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO runs (id, timestamp, date_str, scene_id, duration_ms, drops, is_tz)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp, rec.DateStr, rec.SceneID, rec.DurationMS, string(drops), boolToInt(rec.IsTZ),
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// ListRuns returns records matching the filter, most recent first.
func (s *Store) ListRuns(f RunFilter) ([]RunRecord, error) {
	query := `SELECT id, timestamp, date_str, scene_id, duration_ms, drops, is_tz FROM runs WHERE 1=1`
	var args []any

	if f.SceneID != "" {
		query += ` AND scene_id = ?`
		args = append(args, f.SceneID)
	}
	if f.Start != "" {
		query += ` AND date_str >= ?`
		args = append(args, f.Start)
	}
	if f.End != "" {
		query += ` AND date_str <= ?`
		args = append(args, f.End)
	}
	query += ` ORDER BY timestamp DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// DeleteRun removes one record by id. Deleting an unknown id is not an error.
func (s *Store) DeleteRun(id string) error {
	_, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	return nil
}

// CountRuns returns how many records exist for a scene on a calendar day.
func (s *Store) CountRuns(dateStr, sceneID string) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM runs WHERE date_str = ? AND scene_id = ?`,
		dateStr, sceneID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// SaveCloudCache replaces the cached cloud record set wholesale.
func (s *Store) SaveCloudCache(records []RunRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin cloud cache: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cloud_cache`); err != nil {
		return fmt.Errorf("clear cloud cache: %w", err)
	}
	for _, rec := range records {
		drops, err := json.Marshal(rec.Drops)
		if err != nil {
			return fmt.Errorf("marshal drops: %w", err)
		}
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO cloud_cache (id, timestamp, date_str, scene_id, duration_ms, drops, is_tz)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.Timestamp, rec.DateStr, rec.SceneID, rec.DurationMS, string(drops), boolToInt(rec.IsTZ),
		); err != nil {
			return fmt.Errorf("cache cloud run: %w", err)
		}
	}
	return tx.Commit()
}

// LoadCloudCache returns the cached cloud records, most recent first.
func (s *Store) LoadCloudCache() ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, timestamp, date_str, scene_id, duration_ms, drops, is_tz
		 FROM cloud_cache ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("load cloud cache: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]RunRecord, error) {
	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var drops string
		var isTZ int
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.DateStr, &rec.SceneID, &rec.DurationMS, &drops, &isTZ); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(drops), &rec.Drops); err != nil {
			return nil, fmt.Errorf("unmarshal drops for %s: %w", rec.ID, err)
		}
		rec.IsTZ = isTZ != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
