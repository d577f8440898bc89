// Package sqlstore implements the store interfaces on database/sql for both
// PostgreSQL (through pgx) and SQLite (through the pure-Go modernc driver).
//
// Queries are written once with ? placeholders and rebound per dialect.
// Driver errors are translated to the store package's sentinel errors by
// MapError so callers never see driver types.
package sqlstore
