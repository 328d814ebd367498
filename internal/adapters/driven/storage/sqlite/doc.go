// Package sqlite provides SQLite-backed persistence for checkouts and
// build history. The schema is managed through embedded migrations and
// the store opens in WAL mode for concurrent CLI invocations.
package sqlite
