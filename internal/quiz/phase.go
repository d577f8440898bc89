package quiz

// Phase is the single tagged state of a session. Each mode category moves
// through its own subset of phases; Empty and Completed are shared.
type Phase int

const (
	// PhaseEmpty means the session has nothing to study: it was never
	// started, or it started with an empty pool.
	PhaseEmpty Phase = iota
	PhaseAwaitingReveal
	PhaseAnswerShown
	PhaseAwaitingChoice
	PhaseChoiceMade
	PhaseRevealingLayers
	// PhaseLayersRevealed is the only layered reveal phase in which Mark applies.
	PhaseLayersRevealed
	PhaseReading
	PhaseReadingDone
	PhaseBatchAwaitingConfirm
	PhaseBatchAnswerShown
	// PhaseCompleted means no work remains and at least one item was answered.
	PhaseCompleted
)

var phaseNames = [...]string{
	PhaseEmpty:                "empty",
	PhaseAwaitingReveal:       "awaiting_reveal",
	PhaseAnswerShown:          "answer_shown",
	PhaseAwaitingChoice:       "awaiting_choice",
	PhaseChoiceMade:           "choice_made",
	PhaseRevealingLayers:      "revealing_layers",
	PhaseLayersRevealed:       "layers_revealed",
	PhaseReading:              "reading",
	PhaseReadingDone:          "reading_done",
	PhaseBatchAwaitingConfirm: "batch_awaiting_confirm",
	PhaseBatchAnswerShown:     "batch_answer_shown",
	PhaseCompleted:            "completed",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// AnswerVisible reports whether the answer of the current unit is shown.
func (p Phase) AnswerVisible() bool {
	switch p {
	case PhaseAnswerShown, PhaseChoiceMade, PhaseBatchAnswerShown:
		return true
	default:
		return false
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
