package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/events"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/quiz"
)

// SessionService manages live study sessions.
type SessionService interface {
	// Create loads bankID into a new session. An empty viewport selects the
	// configured default. Returns ErrBankNotFound if the bank does not exist.
	Create(ctx context.Context, bankID int64, viewport quiz.Viewport) (*Snapshot, error)

	// Get returns the current state of a session.
	// Returns ErrSessionNotFound if the id is unknown or expired.
	Get(ctx context.Context, id uuid.UUID) (*Snapshot, error)

	// Dispatch applies cmd to a session. Invalid transitions are reported
	// through Snapshot.Applied, not as errors.
	Dispatch(ctx context.Context, id uuid.UUID, cmd quiz.Command) (*Snapshot, error)

	// Delete ends a session.
	Delete(ctx context.Context, id uuid.UUID) error

	// Sweep removes sessions idle since before now minus the idle timeout
	// and returns how many were removed.
	Sweep(ctx context.Context, now time.Time) int
}

// Snapshot is a session's state after an operation.
type Snapshot struct {
	ID      uuid.UUID
	View    quiz.View
	Applied bool
	// Speak lists text the client should pronounce, in order.
	Speak []string
}

// SessionOptions tunes a SessionService.
type SessionOptions struct {
	IdleTimeout     time.Duration
	DefaultViewport quiz.Viewport
	// Seed returns the random seed for a new session. Defaults to a random value.
	Seed func() uint64
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// speechCue records what the engine asks to pronounce so it can be handed
// to the client, which owns the speaker.
type speechCue struct {
	texts []string
}

func (c *speechCue) Pronounce(_ context.Context, text string) error {
	c.texts = append(c.texts, text)
	return nil
}

func (c *speechCue) drain() []string {
	out := c.texts
	c.texts = nil
	return out
}

type liveSession struct {
	mu        sync.Mutex
	orch      *quiz.Orchestrator
	cue       *speechCue
	completed bool
	lastUsed  atomic.Int64
}

func (l *liveSession) touch(now time.Time) {
	l.lastUsed.Store(now.UnixNano())
}

type sessionServiceImpl struct {
	fetcher quiz.BankFetcher
	emitter events.EventEmitter
	opts    SessionOptions
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*liveSession
}

// NewSessionService creates a SessionService. If logger is nil, the default
// logger is used.
func NewSessionService(
	fetcher quiz.BankFetcher,
	emitter events.EventEmitter,
	opts SessionOptions,
	logger *slog.Logger,
) SessionService {
	if fetcher == nil {
		panic("fetcher cannot be nil")
	}
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DefaultViewport == "" {
		opts.DefaultViewport = quiz.ViewportDesktop
	}
	if opts.Seed == nil {
		opts.Seed = rand.Uint64
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &sessionServiceImpl{
		fetcher:  fetcher,
		emitter:  emitter,
		opts:     opts,
		logger:   logger.With(slog.String("component", "session_service")),
		sessions: make(map[uuid.UUID]*liveSession),
	}
}

// Create implements SessionService.Create.
func (s *sessionServiceImpl) Create(ctx context.Context, bankID int64, viewport quiz.Viewport) (*Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if viewport == "" {
		viewport = s.opts.DefaultViewport
	}
	if !viewport.Valid() {
		return nil, ErrInvalidViewport
	}

	cue := &speechCue{}
	session := quiz.NewSession(viewport, quiz.NewRand(s.opts.Seed()))
	orch := quiz.NewOrchestrator(s.fetcher, session, cue, s.logger)
	if err := orch.Load(ctx, bankID); err != nil {
		log.Warn("failed to load session",
			slog.Int64("bank_id", bankID),
			slog.String("error", err.Error()))
		return nil, NewServiceError("create_session", "failed to load bank", err)
	}

	id := uuid.New()
	live := &liveSession{orch: orch, cue: cue}
	live.touch(s.opts.Now())

	s.mu.Lock()
	s.sessions[id] = live
	s.mu.Unlock()

	view := orch.View()
	log.Info("session created",
		slog.String("session_id", id.String()),
		slog.Int64("bank_id", view.BankID),
		slog.String("mode", view.Mode.String()),
		slog.String("viewport", string(viewport)))
	s.emit(ctx, events.NewSessionEvent(events.SessionStarted, id, view.BankID, view.Mode.String()))

	return &Snapshot{ID: id, View: view, Applied: true, Speak: cue.drain()}, nil
}

func (s *sessionServiceImpl) lookup(id uuid.UUID) (*liveSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	live, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return live, nil
}

// Get implements SessionService.Get.
func (s *sessionServiceImpl) Get(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	live, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	live.touch(s.opts.Now())
	return &Snapshot{ID: id, View: live.orch.View()}, nil
}

// Dispatch implements SessionService.Dispatch.
func (s *sessionServiceImpl) Dispatch(ctx context.Context, id uuid.UUID, cmd quiz.Command) (*Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("session_id", id.String()))

	live, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	live.touch(s.opts.Now())

	applied, err := live.orch.Dispatch(ctx, cmd)
	if err != nil {
		live.cue.drain()
		log.Debug("command rejected",
			slog.String("action", string(cmd.Action)),
			slog.String("error", err.Error()))
		return nil, err
	}

	view := live.orch.View()
	log.Debug("command dispatched",
		slog.String("action", string(cmd.Action)),
		slog.Bool("applied", applied),
		slog.String("phase", view.Phase.String()))

	if applied && (cmd.Action == quiz.ActionRestart || cmd.Action == quiz.ActionSelectSubBank) {
		s.emit(ctx, events.NewSessionEvent(events.SessionRestarted, id, view.BankID, view.Mode.String()))
	}
	if view.Completed && !live.completed {
		s.emit(ctx, events.NewSessionEvent(events.SessionCompleted, id, view.BankID, view.Mode.String()).
			WithTally(view.CorrectCount, view.IncorrectCount))
	}
	live.completed = view.Completed

	return &Snapshot{ID: id, View: view, Applied: applied, Speak: live.cue.drain()}, nil
}

// Delete implements SessionService.Delete.
func (s *sessionServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("session deleted", slog.String("session_id", id.String()))
	return nil
}

// Sweep implements SessionService.Sweep.
func (s *sessionServiceImpl) Sweep(ctx context.Context, now time.Time) int {
	if s.opts.IdleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-s.opts.IdleTimeout).UnixNano()

	s.mu.Lock()
	removed := 0
	for id, live := range s.sessions {
		if live.lastUsed.Load() < cutoff {
			delete(s.sessions, id)
			removed++
		}
	}
	remaining := len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		logger.FromContextOrDefault(ctx, s.logger).Info("expired idle sessions",
			slog.Int("removed", removed),
			slog.Int("remaining", remaining))
	}
	return removed
}

// emit publishes event; handler failures are logged and never fail the
// operation that raised the event.
func (s *sessionServiceImpl) emit(ctx context.Context, event *events.SessionEvent) {
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("session event handler failed",
			slog.String("event_type", event.Type),
			slog.String("error", err.Error()))
	}
}
