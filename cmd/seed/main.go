// Package main loads question banks from a JSON manifest into the database,
// replacing whatever banks are stored.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/phrazzld/studydeck/internal/config"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/platform/sqlstore"
	"github.com/phrazzld/studydeck/internal/redact"
	"github.com/phrazzld/studydeck/internal/seed"
)

func main() {
	manifest := flag.String("manifest", "data/banks.json", "path to the bank manifest")
	dataDir := flag.String("data", "", "directory holding question files (defaults to the manifest's directory)")
	strict := flag.Bool("strict", false, "fail on unreadable question files instead of skipping them")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *manifest, *dataDir, *strict); err != nil {
		log.Printf("seed: %s", redact.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, manifestPath, dataDir string, strict bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	if dataDir == "" {
		dataDir = filepath.Dir(manifestPath)
	}
	specs, err := seed.LoadManifest(os.DirFS(filepath.Dir(manifestPath)), filepath.Base(manifestPath))
	if err != nil {
		return err
	}

	db, dialect, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	migrator, err := sqlstore.NewMigrator(db, dialect, l)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	seeder := seed.NewSeeder(db, sqlstore.NewBankStore(db, dialect, l), os.DirFS(dataDir), seed.Options{Strict: strict}, l)
	summary, err := seeder.Run(ctx, specs)
	if err != nil {
		return err
	}

	l.Info("database seeded",
		slog.String("manifest", manifestPath),
		slog.Int("banks", summary.Banks),
		slog.Int("questions", summary.Questions))
	return nil
}
