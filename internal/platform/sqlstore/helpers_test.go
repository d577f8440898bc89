package sqlstore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// openTestDB opens a migrated SQLite database in a temporary directory.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	url := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"

	db, dialect, err := Open(ctx, "sqlite", url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := NewMigrator(db, dialect, nil)
	require.NoError(t, err)
	require.NoError(t, m.Up(ctx))
	return db
}
