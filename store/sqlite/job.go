package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/id"
	"github.com/frielp/qonos/job"
	"github.com/frielp/qonos/page"
)

const jobColumns = `
	id, schedule_id, tenant_id, action, status, worker_id,
	timeout, metadata, version, created_at, updated_at`

// CreateJob persists a newly materialized job.
func (s *Store) CreateJob(ctx context.Context, j *job.Job) error {
	meta, err := encodeMetadata(j.Metadata)
	if err != nil {
		return fmt.Errorf("qonos/sqlite: encode job metadata: %w", err)
	}

	var worker *string
	if !j.WorkerID.IsNil() {
		w := j.WorkerID.String()
		worker = &w
	}

	var timeout *string
	if j.Timeout != nil {
		t := formatTime(*j.Timeout)
		timeout = &t
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO qonos_jobs (
			id, schedule_id, tenant_id, action, status, worker_id,
			timeout, metadata, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID.String(), j.ScheduleID.String(), j.TenantID, j.Action,
		string(j.Status), worker,
		timeout, meta, j.Version,
		formatTime(j.CreatedAt), formatTime(j.UpdatedAt),
	)
	if err != nil {
		if isDuplicateKey(err) {
			return qonos.ErrJobAlreadyExists
		}
		return fmt.Errorf("qonos/sqlite: create job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by ID.
func (s *Store) GetJob(ctx context.Context, jobID id.JobID) (*job.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+jobColumns+` FROM qonos_jobs WHERE id = ?`,
		jobID.String(),
	)

	j, err := scanJob(row)
	if err != nil {
		if isNoRows(err) {
			return nil, qonos.ErrJobNotFound
		}
		return nil, fmt.Errorf("qonos/sqlite: get job: %w", err)
	}
	return j, nil
}

// ListJobs returns jobs after the marker in ID order.
func (s *Store) ListJobs(ctx context.Context, p page.Params) ([]*job.Job, error) {
	query := `SELECT` + jobColumns + ` FROM qonos_jobs`
	args := []interface{}{}

	if p.Marker != "" {
		query += " WHERE id > ?"
		args = append(args, p.Marker)
	}

	query += " ORDER BY id ASC"

	if p.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, p.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("qonos/sqlite: list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*job.Job
	for rows.Next() {
		j, scanErr := scanJob(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("qonos/sqlite: scan job row: %w", scanErr)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("qonos/sqlite: iterate job rows: %w", err)
	}
	return jobs, nil
}

// DeleteJob removes a job by ID. Fault rows are left untouched.
func (s *Store) DeleteJob(ctx context.Context, jobID id.JobID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM qonos_jobs WHERE id = ?`, jobID.String())
	if err != nil {
		return fmt.Errorf("qonos/sqlite: delete job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("qonos/sqlite: delete job: %w", err)
	}
	if n == 0 {
		return qonos.ErrJobNotFound
	}
	return nil
}

// CompareAndSwapStatus applies a version-guarded UPDATE and re-reads the
// record. The single-writer connection makes the write-then-read atomic
// with respect to other calls on this store.
func (s *Store) CompareAndSwapStatus(ctx context.Context, jobID id.JobID, expectedVersion int64, status job.Status, timeout *time.Time) (*job.Job, error) {
	var timeoutStr *string
	if timeout != nil {
		t := formatTime(*timeout)
		timeoutStr = &t
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE qonos_jobs SET
			status = ?,
			timeout = COALESCE(?, timeout),
			version = version + 1,
			updated_at = ?
		WHERE id = ? AND version = ?`,
		string(status), timeoutStr, formatTime(time.Now()),
		jobID.String(), expectedVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("qonos/sqlite: swap job status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("qonos/sqlite: swap job status: %w", err)
	}
	if n == 0 {
		// Zero rows means either a stale version or a missing job.
		var exists bool
		if checkErr := s.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM qonos_jobs WHERE id = ?)`,
			jobID.String(),
		).Scan(&exists); checkErr != nil {
			return nil, fmt.Errorf("qonos/sqlite: check job existence: %w", checkErr)
		}
		if exists {
			return nil, qonos.ErrVersionConflict
		}
		return nil, qonos.ErrJobNotFound
	}

	return s.GetJob(ctx, jobID)
}

// scanJob scans a single job row.
func scanJob(row interface{ Scan(...interface{}) error }) (*job.Job, error) {
	var (
		j          job.Job
		idStr      string
		schedStr   string
		statusStr  string
		workerStr  sql.NullString
		timeoutStr sql.NullString
		metaRaw    string
		createdStr string
		updatedStr string
	)
	err := row.Scan(
		&idStr, &schedStr, &j.TenantID, &j.Action, &statusStr, &workerStr,
		&timeoutStr, &metaRaw, &j.Version, &createdStr, &updatedStr,
	)
	if err != nil {
		return nil, err
	}

	j.Status = job.Status(statusStr)

	parsedID, parseErr := id.ParseJobID(idStr)
	if parseErr != nil {
		return nil, fmt.Errorf("qonos/sqlite: parse job id %q: %w", idStr, parseErr)
	}
	j.ID = parsedID

	parsedSched, parseErr := id.ParseScheduleID(schedStr)
	if parseErr != nil {
		return nil, fmt.Errorf("qonos/sqlite: parse schedule id %q: %w", schedStr, parseErr)
	}
	j.ScheduleID = parsedSched

	if workerStr.Valid {
		parsedWorker, workerErr := id.ParseWorkerID(workerStr.String)
		if workerErr == nil {
			j.WorkerID = parsedWorker
		}
	}

	if timeoutStr.Valid {
		t, timeErr := parseTime(timeoutStr.String)
		if timeErr != nil {
			return nil, fmt.Errorf("qonos/sqlite: parse timeout %q: %w", timeoutStr.String, timeErr)
		}
		j.Timeout = &t
	}

	if j.CreatedAt, err = parseTime(createdStr); err != nil {
		return nil, fmt.Errorf("qonos/sqlite: parse created_at %q: %w", createdStr, err)
	}
	if j.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return nil, fmt.Errorf("qonos/sqlite: parse updated_at %q: %w", updatedStr, err)
	}

	meta, metaErr := decodeMetadata(metaRaw)
	if metaErr != nil {
		return nil, fmt.Errorf("qonos/sqlite: decode job metadata: %w", metaErr)
	}
	j.Metadata = meta

	return &j, nil
}
