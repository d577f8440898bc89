package quiz

import (
	"math/rand/v2"

	"github.com/phrazzld/studydeck/internal/domain"
)

// Answer records how one question was resolved.
type Answer struct {
	Question   *domain.Question
	WasCorrect bool
}

// RestartScope selects the pool a restarted session studies.
type RestartScope string

const (
	RestartAll       RestartScope = "all"
	RestartIncorrect RestartScope = "incorrect"
	RestartCorrect   RestartScope = "correct"
)

// Valid reports whether s is a known scope.
func (s RestartScope) Valid() bool {
	return s == RestartAll || s == RestartIncorrect || s == RestartCorrect
}

// Progress is the completed/total pair shown to the user. Batch modes count
// batches, other modes count questions.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Session is the state machine of one study session.
//
// Every transition returns whether it applied. A transition whose
// preconditions do not hold leaves the session untouched and returns false.
type Session struct {
	rng      *rand.Rand
	viewport Viewport

	bank   *domain.QuestionBank
	mode   domain.Mode
	origin []*domain.Question

	unanswered   []*domain.Question
	answered     []Answer
	currentTotal int
	phase        Phase

	item             *itemState
	batch            Batch
	batchesCompleted int
	totalBatches     int
}

// NewSession returns an idle session. A nil rng is replaced with a randomly
// seeded source; an invalid viewport falls back to desktop.
func NewSession(viewport Viewport, rng *rand.Rand) *Session {
	if rng == nil {
		rng = NewRand(randomSeed())
	}
	if !viewport.Valid() {
		viewport = ViewportDesktop
	}
	return &Session{rng: rng, viewport: viewport}
}

// Start resets the session to study pool under bank's mode. It fails only
// for a nil bank or an unknown mode.
func (s *Session) Start(pool []*domain.Question, bank *domain.QuestionBank) bool {
	if bank == nil || !bank.Mode.Valid() {
		return false
	}
	s.origin = append([]*domain.Question(nil), pool...)
	s.begin(pool, bank)
	return true
}

func (s *Session) begin(pool []*domain.Question, bank *domain.QuestionBank) {
	s.bank = bank
	s.mode = bank.Mode
	s.unanswered = Shuffle(s.rng, pool)
	s.answered = nil
	s.currentTotal = len(pool)
	s.item = nil
	s.batch = Batch{}
	s.batchesCompleted = 0
	s.totalBatches = 0
	if size := BatchSize(s.mode, s.viewport); s.mode.IsBatch() && size > 0 {
		s.totalBatches = (len(pool) + size - 1) / size
	}
	s.settle()
}

// settle draws the next unit of work and sets the phase for it.
func (s *Session) settle() {
	s.item = nil
	s.batch = Batch{}

	if len(s.unanswered) == 0 {
		if len(s.answered) > 0 {
			s.phase = PhaseCompleted
		} else {
			s.phase = PhaseEmpty
		}
		return
	}

	if s.mode.IsBatch() {
		s.batch = NewSelector(s.rng, s.mode, s.viewport).Next(s.unanswered)
		if s.mode == domain.ModeSentenceBySentence {
			s.item = drawItem(s.rng, s.mode, s.batch.Items[0])
			s.phase = initialPhase(s.mode, s.item)
			return
		}
		s.phase = PhaseBatchAwaitingConfirm
		return
	}

	s.item = drawItem(s.rng, s.mode, s.unanswered[0])
	s.phase = initialPhase(s.mode, s.item)
}

// SelectSubBank starts over on bank's own questions.
func (s *Session) SelectSubBank(bank *domain.QuestionBank) bool {
	if bank == nil {
		return false
	}
	return s.Start(bank.Questions, bank)
}

// Restart begins a new round over the full pool, or over the questions last
// answered incorrectly or correctly. The full pool is the current bank's
// questions, or the pool the session was started with when the bank carries
// none.
func (s *Session) Restart(scope RestartScope) bool {
	if s.bank == nil || !scope.Valid() {
		return false
	}
	var pool []*domain.Question
	switch scope {
	case RestartAll:
		pool = s.bank.Questions
		if len(pool) == 0 {
			pool = s.origin
		}
	case RestartIncorrect, RestartCorrect:
		want := scope == RestartCorrect
		for _, a := range s.answered {
			if a.WasCorrect == want {
				pool = append(pool, a.Question)
			}
		}
	}
	s.begin(pool, s.bank)
	return true
}

// RevealAnswer shows the answer of the current item or batch. Calling it
// again is a no-op.
func (s *Session) RevealAnswer() bool {
	switch s.phase {
	case PhaseAwaitingReveal:
		s.phase = PhaseAnswerShown
		return true
	case PhaseBatchAwaitingConfirm:
		s.phase = PhaseBatchAnswerShown
		return true
	default:
		return false
	}
}

// Mark resolves the current item. Reveal-then-mark modes accept it whether
// or not the answer is shown; layered reveal only once every layer is shown.
func (s *Session) Mark(correct bool) bool {
	cat, ok := categoryOf(s.mode)
	if !ok {
		return false
	}
	switch {
	case cat == RevealThenMark && (s.phase == PhaseAwaitingReveal || s.phase == PhaseAnswerShown):
	case cat == GatedRevealThenMark && s.phase == PhaseLayersRevealed:
	default:
		return false
	}
	s.resolveHead(correct)
	return true
}

func (s *Session) resolveHead(correct bool) {
	s.answered = append(s.answered, Answer{Question: s.unanswered[0], WasCorrect: correct})
	s.unanswered = s.unanswered[1:]
	s.settle()
}

// SelectChoice answers the current multiple choice item with the option at
// index (in presented order). The item stays current until Advance.
func (s *Session) SelectChoice(index int) bool {
	if s.mode != domain.ModeMCQ || s.phase != PhaseAwaitingChoice {
		return false
	}
	it := s.item
	if it == nil || it.err != nil || index < 0 || index >= len(it.options) {
		return false
	}
	it.selected = index
	s.answered = append(s.answered, Answer{Question: it.question, WasCorrect: index == it.correct})
	s.phase = PhaseChoiceMade
	return true
}

// Advance moves past an answered multiple choice item. A malformed item that
// cannot be answered is skipped and recorded as incorrect.
func (s *Session) Advance() bool {
	if s.mode != domain.ModeMCQ {
		return false
	}
	switch {
	case s.phase == PhaseChoiceMade:
		s.unanswered = s.unanswered[1:]
		s.settle()
		return true
	case s.phase == PhaseAwaitingChoice && s.item != nil && s.item.err != nil:
		s.resolveHead(false)
		return true
	default:
		return false
	}
}

// RevealNextLayer shows one more meaning of a layered reveal item.
func (s *Session) RevealNextLayer() bool {
	if s.phase != PhaseRevealingLayers {
		return false
	}
	s.item.layersShown++
	if s.item.layersShown >= len(s.item.layers) {
		s.phase = PhaseLayersRevealed
	}
	return true
}

// RevealAllLayers shows every remaining meaning at once.
func (s *Session) RevealAllLayers() bool {
	if s.phase != PhaseRevealingLayers {
		return false
	}
	s.item.layersShown = len(s.item.layers)
	s.phase = PhaseLayersRevealed
	return true
}

// RevealNextSentence shows one more sentence of the script being read.
func (s *Session) RevealNextSentence() bool {
	if s.phase != PhaseReading {
		return false
	}
	s.item.sentencesShown++
	if s.item.sentencesShown >= len(s.item.sentences) {
		s.phase = PhaseReadingDone
	}
	return true
}

// CompleteBatchUnit records every item of the current batch as correct and
// draws the next batch. A script being read must be finished first.
func (s *Session) CompleteBatchUnit() bool {
	if !s.mode.IsBatch() || s.batch.Empty() {
		return false
	}
	switch s.phase {
	case PhaseBatchAwaitingConfirm, PhaseBatchAnswerShown, PhaseReadingDone:
	default:
		return false
	}

	done := make(map[*domain.Question]int, len(s.batch.Items))
	for _, q := range s.batch.Items {
		done[q]++
		s.answered = append(s.answered, Answer{Question: q, WasCorrect: true})
	}
	remaining := make([]*domain.Question, 0, len(s.unanswered))
	for _, q := range s.unanswered {
		if done[q] > 0 {
			done[q]--
			continue
		}
		remaining = append(remaining, q)
	}
	s.unanswered = remaining
	s.batchesCompleted++
	s.settle()
	return true
}

// Undo reverts the most recent answer in a non-batch mode. The question goes
// back to the front of the queue and is drawn afresh. Undoing a choice that
// has not been advanced past only unlocks the choice.
func (s *Session) Undo() bool {
	if s.mode.IsBatch() || len(s.answered) == 0 {
		return false
	}
	last := s.answered[len(s.answered)-1]
	s.answered = s.answered[:len(s.answered)-1]

	if s.phase == PhaseChoiceMade {
		s.item.selected = -1
		s.phase = PhaseAwaitingChoice
		return true
	}

	unanswered := make([]*domain.Question, 0, len(s.unanswered)+1)
	unanswered = append(unanswered, last.Question)
	s.unanswered = append(unanswered, s.unanswered...)
	s.settle()
	return true
}

// IsCompleted reports whether no work remains and at least one item has been
// answered. A session started on an empty pool is never completed.
func (s *Session) IsCompleted() bool {
	remaining := len(s.unanswered) > 0
	if s.mode.IsBatch() {
		remaining = !s.batch.Empty()
	}
	return !remaining && len(s.answered) > 0
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Mode returns the mode of the bank being studied.
func (s *Session) Mode() domain.Mode { return s.mode }

// Bank returns the bank being studied, or nil before Start.
func (s *Session) Bank() *domain.QuestionBank { return s.bank }

// Viewport returns the viewport batches are sized for.
func (s *Session) Viewport() Viewport { return s.viewport }

// AnswerVisible reports whether the current answer is shown.
func (s *Session) AnswerVisible() bool { return s.phase.AnswerVisible() }

// CurrentTotal is the pool size at start.
func (s *Session) CurrentTotal() int { return s.currentTotal }

// Unanswered returns a copy of the remaining queue.
func (s *Session) Unanswered() []*domain.Question {
	return append([]*domain.Question(nil), s.unanswered...)
}

// Answered returns a copy of the answer history.
func (s *Session) Answered() []Answer {
	return append([]Answer(nil), s.answered...)
}

// CurrentItem returns the question being presented one at a time, including
// the script of a sentence-by-sentence batch. It is nil for table and cloze
// batches and when no work remains.
func (s *Session) CurrentItem() *domain.Question {
	if s.item == nil {
		return nil
	}
	return s.item.question
}

// CurrentBatch returns the batch in play.
func (s *Session) CurrentBatch() Batch { return s.batch }

// CorrectCount is the number of answers recorded as correct.
func (s *Session) CorrectCount() int {
	n := 0
	for _, a := range s.answered {
		if a.WasCorrect {
			n++
		}
	}
	return n
}

// IncorrectCount is the number of answers recorded as incorrect.
func (s *Session) IncorrectCount() int {
	return len(s.answered) - s.CorrectCount()
}

// BatchesCompleted is the number of batches resolved this round.
func (s *Session) BatchesCompleted() int { return s.batchesCompleted }

// TotalBatches is the planned number of batches for this round.
func (s *Session) TotalBatches() int { return s.totalBatches }

// Progress reports answered questions, or completed batches in batch modes.
// Cloze rounds can need more batches than planned when families are few, so
// the total never drops below the completed count.
func (s *Session) Progress() Progress {
	if s.mode.IsBatch() {
		return Progress{Completed: s.batchesCompleted, Total: max(s.totalBatches, s.batchesCompleted)}
	}
	return Progress{Completed: len(s.answered), Total: s.currentTotal}
}
