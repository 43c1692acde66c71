package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

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
		return fmt.Errorf("qonos/postgres: encode schedule metadata: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO qonos_schedules (
			id, tenant_id, action, metadata, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		sched.ID.String(), sched.TenantID, sched.Action, meta,
		sched.CreatedAt, sched.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return qonos.ErrScheduleAlreadyExists
		}
		return fmt.Errorf("qonos/postgres: create schedule: %w", err)
	}
	return nil
}

// GetSchedule retrieves a schedule by ID.
func (s *Store) GetSchedule(ctx context.Context, scheduleID id.ScheduleID) (*schedule.Schedule, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT`+scheduleColumns+` FROM qonos_schedules WHERE id = $1`,
		scheduleID.String(),
	)

	sched, err := scanSchedule(row)
	if err != nil {
		if isNoRows(err) {
			return nil, qonos.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("qonos/postgres: get schedule: %w", err)
	}
	return sched, nil
}

// ListSchedules returns schedules after the marker in ID order.
func (s *Store) ListSchedules(ctx context.Context, p page.Params) ([]*schedule.Schedule, error) {
	query := `SELECT` + scheduleColumns + ` FROM qonos_schedules`
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
		return nil, fmt.Errorf("qonos/postgres: list schedules: %w", err)
	}
	defer rows.Close()

	var scheds []*schedule.Schedule
	for rows.Next() {
		sched, scanErr := scanSchedule(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("qonos/postgres: scan schedule row: %w", scanErr)
		}
		scheds = append(scheds, sched)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("qonos/postgres: iterate schedule rows: %w", err)
	}
	return scheds, nil
}

// DeleteSchedule removes a schedule by ID.
func (s *Store) DeleteSchedule(ctx context.Context, scheduleID id.ScheduleID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM qonos_schedules WHERE id = $1`, scheduleID.String())
	if err != nil {
		return fmt.Errorf("qonos/postgres: delete schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return qonos.ErrScheduleNotFound
	}
	return nil
}

// scanSchedule scans a single schedule row.
func scanSchedule(row pgx.Row) (*schedule.Schedule, error) {
	var (
		sched   schedule.Schedule
		idStr   string
		metaRaw []byte
	)
	err := row.Scan(
		&idStr, &sched.TenantID, &sched.Action, &metaRaw,
		&sched.CreatedAt, &sched.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsedID, parseErr := id.ParseScheduleID(idStr)
	if parseErr != nil {
		return nil, fmt.Errorf("qonos/postgres: parse schedule id %q: %w", idStr, parseErr)
	}
	sched.ID = parsedID

	meta, metaErr := decodeMetadata(metaRaw)
	if metaErr != nil {
		return nil, fmt.Errorf("qonos/postgres: decode schedule metadata: %w", metaErr)
	}
	sched.Metadata = meta

	return &sched, nil
}
