package sqlite

import (
	"context"
	"fmt"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/id"
	"github.com/frielp/qonos/page"
	"github.com/frielp/qonos/schedule"
)

const scheduleColumns = `
	id, tenant_id, action, metadata, created_at, updated_at`

// CreateSchedule persists a new schedule.
func (s *Store) CreateSchedule(ctx context.Context, sched *schedule.Schedule) error {
	meta, err := encodeMetadata(sched.Metadata)
	if err != nil {
		return fmt.Errorf("qonos/sqlite: encode schedule metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO qonos_schedules (
			id, tenant_id, action, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		sched.ID.String(), sched.TenantID, sched.Action, meta,
		formatTime(sched.CreatedAt), formatTime(sched.UpdatedAt),
	)
	if err != nil {
		if isDuplicateKey(err) {
			return qonos.ErrScheduleAlreadyExists
		}
		return fmt.Errorf("qonos/sqlite: create schedule: %w", err)
	}
	return nil
}

// GetSchedule retrieves a schedule by ID.
func (s *Store) GetSchedule(ctx context.Context, scheduleID id.ScheduleID) (*schedule.Schedule, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+scheduleColumns+` FROM qonos_schedules WHERE id = ?`,
		scheduleID.String(),
	)

	sched, err := scanSchedule(row)
	if err != nil {
		if isNoRows(err) {
			return nil, qonos.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("qonos/sqlite: get schedule: %w", err)
	}
	return sched, nil
}

// ListSchedules returns schedules after the marker in ID order.
func (s *Store) ListSchedules(ctx context.Context, p page.Params) ([]*schedule.Schedule, error) {
	query := `SELECT` + scheduleColumns + ` FROM qonos_schedules`
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
		return nil, fmt.Errorf("qonos/sqlite: list schedules: %w", err)
	}
	defer rows.Close()

	var scheds []*schedule.Schedule
	for rows.Next() {
		sched, scanErr := scanSchedule(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("qonos/sqlite: scan schedule row: %w", scanErr)
		}
		scheds = append(scheds, sched)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("qonos/sqlite: iterate schedule rows: %w", err)
	}
	return scheds, nil
}

// DeleteSchedule removes a schedule by ID.
func (s *Store) DeleteSchedule(ctx context.Context, scheduleID id.ScheduleID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM qonos_schedules WHERE id = ?`, scheduleID.String())
	if err != nil {
		return fmt.Errorf("qonos/sqlite: delete schedule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("qonos/sqlite: delete schedule: %w", err)
	}
	if n == 0 {
		return qonos.ErrScheduleNotFound
	}
	return nil
}

// scanSchedule scans a single schedule row.
func scanSchedule(row interface{ Scan(...interface{}) error }) (*schedule.Schedule, error) {
	var (
		sched      schedule.Schedule
		idStr      string
		metaRaw    string
		createdStr string
		updatedStr string
	)
	err := row.Scan(
		&idStr, &sched.TenantID, &sched.Action, &metaRaw,
		&createdStr, &updatedStr,
	)
	if err != nil {
		return nil, err
	}

	parsedID, parseErr := id.ParseScheduleID(idStr)
	if parseErr != nil {
		return nil, fmt.Errorf("qonos/sqlite: parse schedule id %q: %w", idStr, parseErr)
	}
	sched.ID = parsedID

	if sched.CreatedAt, err = parseTime(createdStr); err != nil {
		return nil, fmt.Errorf("qonos/sqlite: parse created_at %q: %w", createdStr, err)
	}
	if sched.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return nil, fmt.Errorf("qonos/sqlite: parse updated_at %q: %w", updatedStr, err)
	}

	meta, metaErr := decodeMetadata(metaRaw)
	if metaErr != nil {
		return nil, fmt.Errorf("qonos/sqlite: decode schedule metadata: %w", metaErr)
	}
	sched.Metadata = meta

	return &sched, nil
}
