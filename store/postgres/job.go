package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

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
		return fmt.Errorf("qonos/postgres: encode job metadata: %w", err)
	}

	var worker *string
	if !j.WorkerID.IsNil() {
		w := j.WorkerID.String()
		worker = &w
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO qonos_jobs (
			id, schedule_id, tenant_id, action, status, worker_id,
			timeout, metadata, version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11
		)`,
		j.ID.String(), j.ScheduleID.String(), j.TenantID, j.Action,
		string(j.Status), worker,
		j.Timeout, meta, j.Version, j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return qonos.ErrJobAlreadyExists
		}
		return fmt.Errorf("qonos/postgres: create job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by ID.
func (s *Store) GetJob(ctx context.Context, jobID id.JobID) (*job.Job, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT`+jobColumns+` FROM qonos_jobs WHERE id = $1`,
		jobID.String(),
	)

	j, err := scanJob(row)
	if err != nil {
		if isNoRows(err) {
			return nil, qonos.ErrJobNotFound
		}
		return nil, fmt.Errorf("qonos/postgres: get job: %w", err)
	}
	return j, nil
}

// ListJobs returns jobs after the marker in ID order.
func (s *Store) ListJobs(ctx context.Context, p page.Params) ([]*job.Job, error) {
	query := `SELECT` + jobColumns + ` FROM qonos_jobs`
	args := []interface{}{}
	argIdx := 1

	if p.Marker != "" {
		query += fmt.Sprintf(" WHERE id > $%d", argIdx)
		args = append(args, p.Marker)
		argIdx++
	}

	query += " ORDER BY id ASC"

	if p.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, p.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("qonos/postgres: list jobs: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// DeleteJob removes a job by ID. Fault rows are left untouched.
func (s *Store) DeleteJob(ctx context.Context, jobID id.JobID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM qonos_jobs WHERE id = $1`, jobID.String())
	if err != nil {
		return fmt.Errorf("qonos/postgres: delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return qonos.ErrJobNotFound
	}
	return nil
}

// CompareAndSwapStatus writes status and timeout in a single version-guarded
// UPDATE and returns the row as written. A nil timeout preserves the stored
// value via COALESCE.
func (s *Store) CompareAndSwapStatus(ctx context.Context, jobID id.JobID, expectedVersion int64, status job.Status, timeout *time.Time) (*job.Job, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE qonos_jobs SET
			status = $3,
			timeout = COALESCE($4, timeout),
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING`+jobColumns,
		jobID.String(), expectedVersion, string(status), timeout,
	)

	j, err := scanJob(row)
	if err != nil {
		if isNoRows(err) {
			// Zero rows means either a stale version or a missing job.
			var exists bool
			if checkErr := s.pool.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM qonos_jobs WHERE id = $1)`,
				jobID.String(),
			).Scan(&exists); checkErr != nil {
				return nil, fmt.Errorf("qonos/postgres: check job existence: %w", checkErr)
			}
			if exists {
				return nil, qonos.ErrVersionConflict
			}
			return nil, qonos.ErrJobNotFound
		}
		return nil, fmt.Errorf("qonos/postgres: swap job status: %w", err)
	}
	return j, nil
}

// scanJob scans a single job row.
func scanJob(row pgx.Row) (*job.Job, error) {
	var (
		j         job.Job
		idStr     string
		schedStr  string
		statusStr string
		workerStr *string
		metaRaw   []byte
	)
	err := row.Scan(
		&idStr, &schedStr, &j.TenantID, &j.Action, &statusStr, &workerStr,
		&j.Timeout, &metaRaw, &j.Version, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	j.Status = job.Status(statusStr)

	parsedID, parseErr := id.ParseJobID(idStr)
	if parseErr != nil {
		return nil, fmt.Errorf("qonos/postgres: parse job id %q: %w", idStr, parseErr)
	}
	j.ID = parsedID

	parsedSched, parseErr := id.ParseScheduleID(schedStr)
	if parseErr != nil {
		return nil, fmt.Errorf("qonos/postgres: parse schedule id %q: %w", schedStr, parseErr)
	}
	j.ScheduleID = parsedSched

	if workerStr != nil {
		parsedWorker, workerErr := id.ParseWorkerID(*workerStr)
		if workerErr == nil {
			j.WorkerID = parsedWorker
		}
	}

	meta, metaErr := decodeMetadata(metaRaw)
	if metaErr != nil {
		return nil, fmt.Errorf("qonos/postgres: decode job metadata: %w", metaErr)
	}
	j.Metadata = meta

	return &j, nil
}

// collectJobs collects all jobs from query rows.
func collectJobs(rows pgx.Rows) ([]*job.Job, error) {
	var jobs []*job.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("qonos/postgres: scan job row: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("qonos/postgres: iterate job rows: %w", err)
	}
	return jobs, nil
}
