// Package postgres implements the store using pgx/v5 with raw SQL.
// Schema management is handled by embedded SQL migrations, and status
// transitions use version-guarded UPDATE ... RETURNING statements.
package postgres
