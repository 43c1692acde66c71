package sqlite

import (
	"context"
	"database/sql"
	"fmt"

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
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO qonos_faults (
			id, job_id, schedule_id, tenant_id, action, worker_id,
			metadata, message, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID.String(), f.JobID.String(), f.ScheduleID.String(),
		f.TenantID, f.Action, f.WorkerID,
		f.Metadata, f.Message, formatTime(f.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("qonos/sqlite: create fault: %w", err)
	}
	return nil
}

// GetFault retrieves a fault by ID.
func (s *Store) GetFault(ctx context.Context, faultID id.FaultID) (*fault.Fault, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+faultColumns+` FROM qonos_faults WHERE id = ?`,
		faultID.String(),
	)

	f, err := scanFault(row)
	if err != nil {
		if isNoRows(err) {
			return nil, qonos.ErrFaultNotFound
		}
		return nil, fmt.Errorf("qonos/sqlite: get fault: %w", err)
	}
	return f, nil
}

// ListFaultsByJob returns faults for a job after the marker in ID order.
// The job row itself may already be deleted.
func (s *Store) ListFaultsByJob(ctx context.Context, jobID id.JobID, p page.Params) ([]*fault.Fault, error) {
	query := `SELECT` + faultColumns + ` FROM qonos_faults WHERE job_id = ?`
	args := []interface{}{jobID.String()}

	if p.Marker != "" {
		query += " AND id > ?"
		args = append(args, p.Marker)
	}

	query += " ORDER BY id ASC"

	if p.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, p.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("qonos/sqlite: list faults: %w", err)
	}
	defer rows.Close()

	var faults []*fault.Fault
	for rows.Next() {
		f, scanErr := scanFault(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("qonos/sqlite: scan fault row: %w", scanErr)
		}
		faults = append(faults, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("qonos/sqlite: iterate fault rows: %w", err)
	}
	return faults, nil
}

// scanFault scans a single fault row.
func scanFault(row interface{ Scan(...interface{}) error }) (*fault.Fault, error) {
	var (
		f          fault.Fault
		idStr      string
		jobStr     string
		schedStr   string
		message    sql.NullString
		createdStr string
	)
	err := row.Scan(
		&idStr, &jobStr, &schedStr, &f.TenantID, &f.Action, &f.WorkerID,
		&f.Metadata, &message, &createdStr,
	)
	if err != nil {
		return nil, err
	}

	parsedID, parseErr := id.ParseFaultID(idStr)
	if parseErr != nil {
		return nil, fmt.Errorf("qonos/sqlite: parse fault id %q: %w", idStr, parseErr)
	}
	f.ID = parsedID

	parsedJob, parseErr := id.ParseJobID(jobStr)
	if parseErr != nil {
		return nil, fmt.Errorf("qonos/sqlite: parse job id %q: %w", jobStr, parseErr)
	}
	f.JobID = parsedJob

	parsedSched, parseErr := id.ParseScheduleID(schedStr)
	if parseErr != nil {
		return nil, fmt.Errorf("qonos/sqlite: parse schedule id %q: %w", schedStr, parseErr)
	}
	f.ScheduleID = parsedSched

	if message.Valid {
		m := message.String
		f.Message = &m
	}

	if f.CreatedAt, err = parseTime(createdStr); err != nil {
		return nil, fmt.Errorf("qonos/sqlite: parse created_at %q: %w", createdStr, err)
	}

	return &f, nil
}
