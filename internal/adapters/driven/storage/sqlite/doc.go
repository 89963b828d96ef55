// Package sqlite persists question/answer exchanges in a local SQLite file.
//
// The driver is modernc.org/sqlite, so the binary stays cgo-free. The
// database lives at <data dir>/docchat.db (~/.docchat/data by default) and is
// opened in WAL mode with a busy timeout, which lets the CLI read history
// while an interactive session is still appending to it.
//
// Exchanges are append-only. The schema is versioned by the scripts in the
// migrations package and applied on open; the applied version is recorded in
// schema_migrations.
package sqlite
