// Package testdb opens migrated databases for tests.
//
// SQLite databases live in a per-test temporary directory and need no
// external service. Postgres tests run only when STUDYDECK_TEST_DB_URL is
// set and are skipped otherwise. WithTx gives a test a transaction that is
// always rolled back, so Postgres tests can share one database.
package testdb

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/studydeck/internal/platform/sqlstore"
	"github.com/stretchr/testify/require"
)

// EnvTestDatabaseURL names the variable holding the Postgres test DSN.
const EnvTestDatabaseURL = "STUDYDECK_TEST_DB_URL"

// PostgresURL returns the Postgres test DSN, or "" when none is configured.
func PostgresURL() string {
	return os.Getenv(EnvTestDatabaseURL)
}

// OpenSQLite opens a migrated SQLite database in t's temporary directory.
// The connection is closed when the test ends.
func OpenSQLite(t *testing.T) (*sql.DB, sqlstore.Dialect) {
	t.Helper()
	url := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	return open(t, "sqlite", url)
}

// OpenPostgres opens and migrates the Postgres test database, skipping the
// test when EnvTestDatabaseURL is unset.
func OpenPostgres(t *testing.T) (*sql.DB, sqlstore.Dialect) {
	t.Helper()
	url := PostgresURL()
	if url == "" {
		t.Skipf("%s not set - skipping postgres test", EnvTestDatabaseURL)
	}
	return open(t, "postgres", url)
}

func open(t *testing.T, driver, url string) (*sql.DB, sqlstore.Dialect) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, dialect, err := sqlstore.Open(ctx, driver, url)
	require.NoError(t, err, "open %s test database", driver)
	t.Cleanup(func() { _ = db.Close() })

	m, err := sqlstore.NewMigrator(db, dialect, nil)
	require.NoError(t, err)
	require.NoError(t, m.Up(ctx), "migrate %s test database", driver)
	return db, dialect
}

// WithTx runs fn in a transaction that is rolled back afterwards, whatever
// fn does.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "begin test transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Errorf("rollback test transaction: %v", err)
		}
	}()
	fn(t, tx)
}
