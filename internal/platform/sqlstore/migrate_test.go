package sqlstore

import (
	"context"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigratorLifecycle(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	m, err := NewMigrator(db, DialectSQLite, nil)
	require.NoError(t, err)

	statuses, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	for _, s := range statuses {
		assert.Equal(t, goose.StateApplied, s.State)
	}

	require.NoError(t, m.Up(ctx), "up is idempotent")
	require.NoError(t, m.Run(ctx, MigrateVersion))

	require.NoError(t, m.Run(ctx, MigrateDown))
	statuses, err = m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, goose.StatePending, statuses[1].State)

	require.NoError(t, m.Run(ctx, MigrateReset))
	_, err = db.ExecContext(ctx, `SELECT 1 FROM question_banks`)
	assert.Error(t, err, "tables are dropped after reset")

	require.NoError(t, m.Run(ctx, MigrateUp))
	_, err = db.ExecContext(ctx, `SELECT 1 FROM questions`)
	assert.NoError(t, err)

	assert.Error(t, m.Run(ctx, "sideways"))
}

func TestEveryDialectHasMigrations(t *testing.T) {
	for _, d := range []Dialect{DialectPostgres, DialectSQLite} {
		entries, err := migrationsFS.ReadDir("migrations/" + string(d))
		require.NoError(t, err)
		assert.Len(t, entries, 2, "dialect %s", d)
	}
}
