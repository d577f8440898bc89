package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/platform/logger"
)

// BankFetcher is the data-access collaborator the orchestrator loads from.
type BankFetcher interface {
	// FetchBanks returns every bank without questions.
	FetchBanks(ctx context.Context) ([]*domain.QuestionBank, error)

	// FetchBankWithQuestions returns one bank with its questions and its
	// direct children, each with their own questions.
	FetchBankWithQuestions(ctx context.Context, id int64) (*domain.QuestionBank, error)
}

// LoadState tracks the initial fetch of an orchestrator.
type LoadState int

const (
	LoadNotReady LoadState = iota
	LoadLoading
	LoadReady
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadNotReady:
		return "not_ready"
	case LoadLoading:
		return "loading"
	case LoadReady:
		return "ready"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s LoadState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Action is the verb of a Command.
type Action string

const (
	ActionRevealAnswer        Action = "reveal_answer"
	ActionMark                Action = "mark"
	ActionSelectChoice        Action = "select_choice"
	ActionAdvance             Action = "advance"
	ActionRevealNextLayer     Action = "reveal_next_layer"
	ActionRevealAllLayers     Action = "reveal_all_layers"
	ActionRevealNextSentence  Action = "reveal_next_sentence"
	ActionCompleteBatch       Action = "complete_batch"
	ActionUndo                Action = "undo"
	ActionRestart             Action = "restart"
	ActionSelectSubBank       Action = "select_sub_bank"
	ActionPronounce           Action = "pronounce"
	ActionToggleAutoPronounce Action = "toggle_auto_pronounce"
)

// Command is one user interaction. Only the fields its action reads are used.
type Command struct {
	Action  Action       `json:"action"`
	Correct bool         `json:"correct,omitempty"`
	Index   int          `json:"index,omitempty"`
	Scope   RestartScope `json:"scope,omitempty"`
	BankID  int64        `json:"bank_id,omitempty"`
	Text    string       `json:"text,omitempty"`
}

// ReturnTarget is where the user lands when leaving the session: the parent
// of a child bank, or the bank itself.
type ReturnTarget struct {
	BankID   int64  `json:"bank_id"`
	Category string `json:"category"`
}

// Orchestrator wires a Session to its data source and exposes a single
// command API to the presentation layer.
type Orchestrator struct {
	fetcher    BankFetcher
	session    *Session
	pronouncer Pronouncer
	logger     *slog.Logger

	state   LoadState
	loadErr error

	// requested is the bank the session was opened for; parent is set when
	// that bank is a child.
	requested *domain.QuestionBank
	parent    *domain.QuestionBank

	autoPronounce bool
	lastSpoken    *domain.Question
}

// NewOrchestrator returns an orchestrator in the not-ready state. A nil
// pronouncer is replaced with NopPronouncer.
func NewOrchestrator(fetcher BankFetcher, session *Session, pronouncer Pronouncer, log *slog.Logger) *Orchestrator {
	if pronouncer == nil {
		pronouncer = NopPronouncer{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		fetcher:    fetcher,
		session:    session,
		pronouncer: pronouncer,
		logger:     log.With(slog.String("component", "quiz_orchestrator")),
	}
}

// Load fetches bankID and starts the session on it. A child bank also loads
// its parent so siblings can be offered. A bank with no questions of its own
// but with children starts on its first child. Any fetch failure is terminal.
func (o *Orchestrator) Load(ctx context.Context, bankID int64) error {
	log := logger.FromContextOrDefault(ctx, o.logger)
	if o.state == LoadFailed {
		return o.loadErr
	}
	o.state = LoadLoading

	bank, err := o.fetcher.FetchBankWithQuestions(ctx, bankID)
	if err != nil {
		return o.fail(log, fmt.Errorf("fetch bank %d: %w", bankID, err))
	}

	var parent *domain.QuestionBank
	if bank.ParentID != nil {
		parent, err = o.fetcher.FetchBankWithQuestions(ctx, *bank.ParentID)
		if err != nil {
			return o.fail(log, fmt.Errorf("fetch parent bank %d: %w", *bank.ParentID, err))
		}
	}

	o.requested, o.parent = bank, parent
	o.state = LoadReady

	start := bank
	if len(bank.Questions) == 0 && len(bank.SubBanks) > 0 {
		start = bank.SubBanks[0]
	}
	if !o.session.Start(start.Questions, start) {
		return o.fail(log, fmt.Errorf("start bank %d: %w: %q", start.ID, domain.ErrInvalidMode, start.Mode))
	}

	log.Debug("session loaded",
		slog.Int64("bank_id", start.ID),
		slog.String("mode", string(start.Mode)),
		slog.Int("question_count", len(start.Questions)))
	o.autoSpeak(ctx)
	return nil
}

func (o *Orchestrator) fail(log *slog.Logger, err error) error {
	o.state = LoadFailed
	o.loadErr = err
	log.Error("failed to load session", slog.Any("error", err))
	return err
}

// State returns the load state.
func (o *Orchestrator) State() LoadState { return o.state }

// Err returns the load failure, if any.
func (o *Orchestrator) Err() error { return o.loadErr }

// Session returns the underlying session.
func (o *Orchestrator) Session() *Session { return o.session }

// AutoPronounce reports whether new initial-hint words are spoken on draw.
func (o *Orchestrator) AutoPronounce() bool { return o.autoPronounce }

// SubBanks lists the banks the user can switch between: the loaded bank's
// siblings when it is a child, otherwise its children.
func (o *Orchestrator) SubBanks() []*domain.QuestionBank {
	if o.parent != nil {
		return o.parent.SubBanks
	}
	if o.requested != nil {
		return o.requested.SubBanks
	}
	return nil
}

// ReturnTarget reports where leaving the session should go.
func (o *Orchestrator) ReturnTarget() (ReturnTarget, bool) {
	if o.requested == nil {
		return ReturnTarget{}, false
	}
	target := o.requested
	if o.parent != nil {
		target = o.parent
	}
	return ReturnTarget{BankID: target.ID, Category: target.Category}, true
}

// Dispatch applies cmd to the session. It reports whether the session
// changed. Invalid transitions are not errors; malformed commands and
// commands sent before the bank has loaded are.
func (o *Orchestrator) Dispatch(ctx context.Context, cmd Command) (bool, error) {
	switch o.state {
	case LoadReady:
	case LoadFailed:
		return false, o.loadErr
	default:
		return false, ErrNotReady
	}

	s := o.session
	var applied bool
	switch cmd.Action {
	case ActionRevealAnswer:
		applied = s.RevealAnswer()
	case ActionMark:
		applied = s.Mark(cmd.Correct)
	case ActionSelectChoice:
		applied = s.SelectChoice(cmd.Index)
	case ActionAdvance:
		applied = s.Advance()
	case ActionRevealNextLayer:
		applied = s.RevealNextLayer()
	case ActionRevealAllLayers:
		applied = s.RevealAllLayers()
	case ActionRevealNextSentence:
		applied = s.RevealNextSentence()
	case ActionCompleteBatch:
		applied = s.CompleteBatchUnit()
	case ActionUndo:
		applied = s.Undo()
	case ActionRestart:
		scope := cmd.Scope
		if scope == "" {
			scope = RestartAll
		}
		if !scope.Valid() {
			return false, fmt.Errorf("%w: %q", ErrInvalidScope, cmd.Scope)
		}
		applied = s.Restart(scope)
	case ActionSelectSubBank:
		bank, ok := o.findSubBank(cmd.BankID)
		if !ok {
			return false, fmt.Errorf("%w: %d", ErrSubBankNotFound, cmd.BankID)
		}
		applied = s.SelectSubBank(bank)
	case ActionPronounce:
		return o.pronounce(ctx, cmd.Text), nil
	case ActionToggleAutoPronounce:
		o.autoPronounce = !o.autoPronounce
		o.lastSpoken = nil
		applied = true
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}

	if applied {
		o.autoSpeak(ctx)
	}
	return applied, nil
}

func (o *Orchestrator) findSubBank(id int64) (*domain.QuestionBank, bool) {
	for _, b := range o.SubBanks() {
		if b.ID == id {
			return b, true
		}
	}
	if o.requested != nil && o.requested.ID == id {
		return o.requested, true
	}
	return nil, false
}

// pronounce speaks text, or the current word when text is empty.
func (o *Orchestrator) pronounce(ctx context.Context, text string) bool {
	if strings.TrimSpace(text) == "" {
		q := o.session.CurrentItem()
		if q == nil {
			return false
		}
		text = q.Content
	}
	text = StripHighlight(text)
	if err := o.pronouncer.Pronounce(ctx, text); err != nil {
		logger.FromContextOrDefault(ctx, o.logger).Warn("pronounce failed", slog.Any("error", err))
		return false
	}
	return true
}

// autoSpeak pronounces a newly drawn initial-hint word when enabled.
func (o *Orchestrator) autoSpeak(ctx context.Context) {
	if !o.autoPronounce || o.session.Mode() != domain.ModeInitialHint {
		return
	}
	q := o.session.CurrentItem()
	if q == nil || q == o.lastSpoken {
		return
	}
	o.lastSpoken = q
	o.pronounce(ctx, q.Content)
}
