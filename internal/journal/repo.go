package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/vigil/internal/apperr"
	"github.com/starford/vigil/internal/models"
)

// NotebookSummary aggregates journal rows per notebook.
type NotebookSummary struct {
	Path     string    `json:"path"`
	Events   int       `json:"events"`
	LastSeen time.Time `json:"last_seen"`
}

// Append inserts one observed event.
func (db *DB) Append(ev models.Event) error {
	_, err := db.conn.Exec(`
		INSERT INTO activity_events (path, source, observed_at_ms, recorded_at_ms)
		VALUES (?, ?, ?, ?)
	`, ev.Path, ev.Source, ev.ObservedAt.UnixMilli(), ev.RecordedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("journal: append: %w", err)
	}
	return nil
}

// Last returns the most recently recorded event, or apperr.ErrNotFound when
// the journal is empty.
func (db *DB) Last() (models.Event, error) {
	row := db.conn.QueryRow(`
		SELECT path, source, observed_at_ms, recorded_at_ms
		FROM activity_events
		ORDER BY id DESC
		LIMIT 1
	`)
	ev, err := scanEvent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("journal: last: %w", err)
	}
	return ev, nil
}

// Recent returns the latest events, newest first. Non-positive limits fall
// back to 50; the hard cap is 500.
func (db *DB) Recent(limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	rows, err := db.conn.Query(`
		SELECT path, source, observed_at_ms, recorded_at_ms
		FROM activity_events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: recent: %w", err)
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		ev, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Summary returns per-notebook event counts and last-seen stamps, most
// recently seen first.
func (db *DB) Summary() ([]NotebookSummary, error) {
	rows, err := db.conn.Query(`
		SELECT path, COUNT(*), MAX(observed_at_ms)
		FROM activity_events
		GROUP BY path
		ORDER BY MAX(observed_at_ms) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("journal: summary: %w", err)
	}
	defer rows.Close()

	var out []NotebookSummary
	for rows.Next() {
		var s NotebookSummary
		var lastMs int64
		if err := rows.Scan(&s.Path, &s.Events, &lastMs); err != nil {
			return nil, err
		}
		s.LastSeen = time.UnixMilli(lastMs).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// Prune deletes events observed before the cutoff and returns the number of
// rows removed.
func (db *DB) Prune(olderThan time.Time) (int64, error) {
	res, err := db.conn.Exec(`DELETE FROM activity_events WHERE observed_at_ms < ?`, olderThan.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("journal: prune: %w", err)
	}
	return res.RowsAffected()
}

func scanEvent(scan func(...any) error) (models.Event, error) {
	var ev models.Event
	var observedMs, recordedMs int64
	if err := scan(&ev.Path, &ev.Source, &observedMs, &recordedMs); err != nil {
		return models.Event{}, err
	}
	ev.ObservedAt = time.UnixMilli(observedMs).UTC()
	ev.RecordedAt = time.UnixMilli(recordedMs).UTC()
	return ev, nil
}
