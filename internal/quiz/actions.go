package quiz

import (
	"github.com/phrazzld/studydeck/internal/domain"
)

// Control is a button of the action bar beneath a card.
type Control string

const (
	ControlShowAnswer         Control = "show_answer"
	ControlMarkCorrect        Control = "mark_correct"
	ControlMarkIncorrect      Control = "mark_incorrect"
	ControlSelectChoice       Control = "select_choice"
	ControlNext               Control = "next"
	ControlRevealNextLayer    Control = "reveal_next_layer"
	ControlRevealNextSentence Control = "reveal_next_sentence"
	ControlFinishReading      Control = "finish_reading"
	ControlConfirm            Control = "confirm"
	ControlNextBatch          Control = "next_batch"
	ControlUndo               Control = "undo"
	ControlRestart            Control = "restart"
	ControlReviewIncorrect    Control = "review_incorrect"
)

// AvailableActions derives the controls to offer for the session's current
// phase. The result is keyed by mode category, so it mirrors the card
// contract rather than the card contents.
func AvailableActions(s *Session) []Control {
	var controls []Control
	switch s.phase {
	case PhaseEmpty:
		return nil
	case PhaseCompleted:
		controls = append(controls, ControlRestart)
		if !s.mode.IsBatch() && s.IncorrectCount() > 0 {
			controls = append(controls, ControlReviewIncorrect)
		}
	case PhaseAwaitingReveal:
		controls = append(controls, ControlShowAnswer)
	case PhaseAnswerShown, PhaseLayersRevealed:
		controls = append(controls, ControlMarkCorrect, ControlMarkIncorrect)
	case PhaseAwaitingChoice:
		if s.item != nil && s.item.err != nil {
			controls = append(controls, ControlNext)
		} else {
			controls = append(controls, ControlSelectChoice)
		}
	case PhaseChoiceMade:
		controls = append(controls, ControlNext)
	case PhaseRevealingLayers:
		controls = append(controls, ControlRevealNextLayer)
	case PhaseReading:
		controls = append(controls, ControlRevealNextSentence)
	case PhaseReadingDone:
		controls = append(controls, ControlFinishReading)
	case PhaseBatchAwaitingConfirm:
		controls = append(controls, ControlConfirm)
	case PhaseBatchAnswerShown:
		controls = append(controls, ControlNextBatch)
	}

	if canUndo(s.mode, len(s.answered)) {
		controls = append(controls, ControlUndo)
	}
	return controls
}

func canUndo(mode domain.Mode, answered int) bool {
	return !mode.IsBatch() && answered > 0
}
