// Package history keeps a log of completed scans in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sydlexius/profilescan/internal/report"
)

// timeLayout is fixed-width so started_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run is one recorded scan.
type Run struct {
	ID              string    `json:"id"`
	Scope           string    `json:"scope"`
	StartedAt       time.Time `json:"started_at"`
	Profiles        int       `json:"profiles"`
	Images          int       `json:"images"`
	Thumbnails      int       `json:"thumbnails"`
	Errors          int       `json:"errors"`
	Warnings        int       `json:"warnings"`
	FilesWithErrors int       `json:"files_with_errors"`
	Published       bool      `json:"published"`
}

// Store reads and writes scan runs.
type Store struct {
	db *sql.DB
}

// NewStore wraps an opened, migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record inserts the counts of s.
func (s *Store) Record(ctx context.Context, sum *report.Summary) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scan_runs (id, scope, started_at, profiles, images, thumbnails,
			errors, warnings, files_with_errors, published)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		sum.ID, sum.Scope, sum.Timestamp.UTC().Format(timeLayout),
		len(sum.ColorProfiles), len(sum.Highways), len(sum.Thumbnails),
		sum.TotalErrors(), sum.TotalWarnings(), sum.Errors.Len(),
	)
	if err != nil {
		return fmt.Errorf("recording scan run: %w", err)
	}
	return nil
}

// MarkPublished flags the run as pushed to the remote.
func (s *Store) MarkPublished(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE scan_runs SET published = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking run published: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking run published: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("scan run %s not found", id)
	}
	return nil
}

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scope, started_at, profiles, images, thumbnails,
			errors, warnings, files_with_errors, published
		FROM scan_runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing scan runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			startedAt string
		)
		if err := rows.Scan(&r.ID, &r.Scope, &startedAt, &r.Profiles, &r.Images, &r.Thumbnails,
			&r.Errors, &r.Warnings, &r.FilesWithErrors, &r.Published); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		r.StartedAt, err = time.Parse(timeLayout, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing started_at for %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
