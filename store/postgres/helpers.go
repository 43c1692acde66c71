package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	qonos "github.com/frielp/qonos"
)

// isNoRows returns true when err indicates no rows were found.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

// isDuplicateKey checks if a PostgreSQL error is a unique_violation (23505).
func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// encodeMetadata renders the ordered pair list as JSONB input. Duplicate
// keys survive the round trip; flattening is a presentation concern.
func encodeMetadata(m qonos.Metadata) ([]byte, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m)
}

// decodeMetadata parses a JSONB column back into the ordered pair list.
func decodeMetadata(raw []byte) (qonos.Metadata, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m qonos.Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, nil
	}
	return m, nil
}
