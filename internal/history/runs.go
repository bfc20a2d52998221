package history

import (
	"context"
)

// Run is one recorded folder sync.
type Run struct {
	ID         string
	Job        string
	Folder     string
	Started    int64 // unix seconds
	DurationMS int64
	Downloaded int
	Deleted    int
	Skipped    int
	Errors     int
	DryRun     bool
}

// RecordRun inserts a completed folder sync.
func (d *DB) RecordRun(ctx context.Context, run Run) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO sync_runs (
			id, job, folder, started, duration_ms, downloaded, deleted, skipped, errors, dry_run
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Job, run.Folder, run.Started, run.DurationMS,
		run.Downloaded, run.Deleted, run.Skipped, run.Errors, boolToInt(run.DryRun))
	return err
}

// ListRuns returns the most recent runs, newest first. An empty job
// matches all jobs; limit <= 0 means no limit.
func (d *DB) ListRuns(ctx context.Context, job string, limit int) (runs []Run, err error) {
	query := `
		SELECT id, job, folder, started, duration_ms, downloaded, deleted, skipped, errors, dry_run
		FROM sync_runs
	`
	args := []interface{}{}
	if job != "" {
		query += ` WHERE job = ?`
		args = append(args, job)
	}
	query += ` ORDER BY started DESC, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for rows.Next() {
		var run Run
		var dryRun int
		if err := rows.Scan(&run.ID, &run.Job, &run.Folder, &run.Started, &run.DurationMS,
			&run.Downloaded, &run.Deleted, &run.Skipped, &run.Errors, &dryRun); err != nil {
			return nil, err
		}
		run.DryRun = dryRun != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
