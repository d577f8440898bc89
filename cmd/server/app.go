package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/studydeck/internal/config"
	"github.com/phrazzld/studydeck/internal/events"
	"github.com/phrazzld/studydeck/internal/platform/sqlstore"
	"github.com/phrazzld/studydeck/internal/quiz"
	"github.com/phrazzld/studydeck/internal/service"
)

// sessionEventLogger records session lifecycle events in the application log.
type sessionEventLogger struct {
	logger *slog.Logger
}

// HandleEvent logs event at INFO.
func (h *sessionEventLogger) HandleEvent(ctx context.Context, event *events.SessionEvent) error {
	attrs := []slog.Attr{
		slog.String("event_id", event.ID.String()),
		slog.String("session_id", event.SessionID.String()),
		slog.Int64("bank_id", event.BankID),
		slog.String("mode", event.Mode),
	}
	if event.Type == events.SessionCompleted {
		attrs = append(attrs,
			slog.Int("correct", event.Correct),
			slog.Int("incorrect", event.Incorrect))
	}
	h.logger.LogAttrs(ctx, slog.LevelInfo, event.Type, attrs...)
	return nil
}

// application holds the shared dependencies and ensures proper cleanup on
// shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	bankStore    *sqlstore.BankStore
	eventEmitter *events.InMemoryEventEmitter
	sessions     service.SessionService
	catalog      service.CatalogService
}

// newApplication wires stores and services over an open, migrated database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB, dialect sqlstore.Dialect) *application {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.bankStore = sqlstore.NewBankStore(db, dialect, logger)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(&sessionEventLogger{
		logger: logger.With(slog.String("component", "session_events")),
	})

	app.sessions = service.NewSessionService(app.bankStore, app.eventEmitter, service.SessionOptions{
		IdleTimeout:     time.Duration(cfg.Session.IdleTimeoutMinutes) * time.Minute,
		DefaultViewport: quiz.Viewport(cfg.Session.DefaultViewport),
	}, logger)
	app.catalog = service.NewCatalogService(app.bankStore, logger)

	logger.Info("Application initialized successfully")
	return app
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	janitorDone := make(chan struct{})
	go func() {
		defer close(janitorDone)
		app.runJanitor(janitorCtx, time.Duration(app.config.Session.SweepIntervalSeconds)*time.Second)
	}()

	err := app.startHTTPServer(ctx, router)
	stopJanitor()
	<-janitorDone
	app.cleanup()
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// runJanitor expires idle sessions every interval until ctx is done.
func (app *application) runJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			app.sessions.Sweep(ctx, now)
		}
	}
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("Application shutdown completed")
}
