// Package sqlite implements store.Store on database/sql with the cgo-free
// modernc.org/sqlite driver. Suitable for embedded/edge deployments, CLI
// tools, and standalone applications.
//
//	store, _ := sqlite.New("/var/lib/qonos/qonos.db")
//	store.Migrate(ctx)
package sqlite
