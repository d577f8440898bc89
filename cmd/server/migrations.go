package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/studydeck/internal/platform/sqlstore"
)

// handleMigrations executes a single migration command against db.
func handleMigrations(
	ctx context.Context,
	db *sql.DB,
	dialect sqlstore.Dialect,
	command string,
	logger *slog.Logger,
) error {
	logger.Info("Executing migrations",
		slog.String("command", command),
		slog.String("dialect", dialect.String()))

	migrator, err := sqlstore.NewMigrator(db, dialect, logger)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if err := migrator.Run(ctx, command); err != nil {
		return fmt.Errorf("migration %q failed: %w", command, err)
	}
	return nil
}
