package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/fault"
	"github.com/frielp/qonos/id"
	"github.com/frielp/qonos/page"
)

const faultColumns = `
	id, job_id, schedule_id, tenant_id, action, worker_id,
	metadata, message, created_at`

// CreateFault persists a new fault record.
func (s *Store) CreateFault(ctx context.Context, f *fault.Fault) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO qonos_faults (
			id, job_id, schedule_id, tenant_id, action, worker_id,
			metadata, message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		f.ID.String(), f.JobID.String(), f.ScheduleID.String(),
		f.TenantID, f.Action, f.WorkerID,
		f.Metadata, f.Message, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("qonos/postgres: create fault: %w", err)
	}
	return nil
}

// GetFault retrieves a fault by ID.
func (s *Store) GetFault(ctx context.Context, faultID id.FaultID) (*fault.Fault, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT`+faultColumns+` FROM qonos_faults WHERE id = $1`,
		faultID.String(),
	)

	f, err := scanFault(row)
	if err != nil {
		if isNoRows(err) {
			return nil, qonos.ErrFaultNotFound
		}
		return nil, fmt.Errorf("qonos/postgres: get fault: %w", err)
	}
	return f, nil
}

// ListFaultsByJob returns faults for a job after the marker in ID order.
// The job row itself may already be deleted.
func (s *Store) ListFaultsByJob(ctx context.Context, jobID id.JobID, p page.Params) ([]*fault.Fault, error) {
	query := `SELECT` + faultColumns + ` FROM qonos_faults WHERE job_id = $1`
	args := []interface{}{jobID.String()}
	argIdx := 2

	if p.Marker != "" {
		query += fmt.Sprintf(" AND id > $%d", argIdx)
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
		return nil, fmt.Errorf("qonos/postgres: list faults: %w", err)
	}
	defer rows.Close()

	var faults []*fault.Fault
	for rows.Next() {
		f, scanErr := scanFault(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("qonos/postgres: scan fault row: %w", scanErr)
		}
		faults = append(faults, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("qonos/postgres: iterate fault rows: %w", err)
	}
	return faults, nil
}

// scanFault scans a single fault row.
func scanFault(row pgx.Row) (*fault.Fault, error) {
	var (
		f        fault.Fault
		idStr    string
		jobStr   string
		schedStr string
	)
	err := row.Scan(
		&idStr, &jobStr, &schedStr, &f.TenantID, &f.Action, &f.WorkerID,
		&f.Metadata, &f.Message, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsedID, parseErr := id.ParseFaultID(idStr)
	if parseErr != nil {
		return nil, fmt.Errorf("qonos/postgres: parse fault id %q: %w", idStr, parseErr)
	}
	f.ID = parsedID

	parsedJob, parseErr := id.ParseJobID(jobStr)
	if parseErr != nil {
		return nil, fmt.Errorf("qonos/postgres: parse job id %q: %w", jobStr, parseErr)
	}
	f.JobID = parsedJob

	parsedSched, parseErr := id.ParseScheduleID(schedStr)
	if parseErr != nil {
		return nil, fmt.Errorf("qonos/postgres: parse schedule id %q: %w", schedStr, parseErr)
	}
	f.ScheduleID = parsedSched

	return &f, nil
}
