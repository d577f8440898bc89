package quiz

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/phrazzld/studydeck/internal/domain"
)

// itemState is the ephemeral presentation state of the item at the head of
// the session. It is computed once when the item is drawn.
type itemState struct {
	question *domain.Question
	err      error

	// mcq
	options  []string
	correct  int
	selected int

	// layered reveal
	layers      []Layer
	layersShown int

	// sentence by sentence
	sentences      []Sentence
	sentencesShown int

	// poetry pair: true when the first line is the prompt
	contentFirst bool

	// poetry completion
	lines  []string
	hidden map[int]bool
}

func drawItem(rng *rand.Rand, mode domain.Mode, q *domain.Question) *itemState {
	it := &itemState{question: q, selected: -1}
	switch mode {
	case domain.ModeMCQ:
		if !q.HasChoices() {
			it.err = fmt.Errorf("question %d: %w: choices or correct index missing", q.ID, domain.ErrMalformedContent)
			return it
		}
		it.options, it.correct = ShuffleOptions(rng, q.Options, *q.CorrectOptionIndex)
	case domain.ModeLayeredReveal:
		layers, err := ParseLayers(q.Answer)
		if err != nil {
			it.err = fmt.Errorf("question %d: %w", q.ID, err)
			return it
		}
		it.layers = layers
	case domain.ModeSentenceBySentence:
		it.sentences = SplitSentences(q.Answer)
		if len(it.sentences) == 0 {
			it.err = fmt.Errorf("question %d: %w: script has no sentences", q.ID, domain.ErrMalformedContent)
		}
	case domain.ModePoetryPair:
		it.contentFirst = rng.IntN(2) == 0
	case domain.ModePoetryCompletion:
		it.lines = SplitPoem(q.Content)
		it.hidden = hideLines(rng, len(it.lines))
	}
	return it
}

// hideLines picks min(2, n) distinct line indices to blank out.
func hideLines(rng *rand.Rand, n int) map[int]bool {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	idx = Shuffle(rng, idx)[:min(maxHiddenPoemLines, n)]
	sort.Ints(idx)
	hidden := make(map[int]bool, len(idx))
	for _, i := range idx {
		hidden[i] = true
	}
	return hidden
}

// initialPhase is the phase a freshly drawn item starts in.
func initialPhase(mode domain.Mode, it *itemState) Phase {
	switch mode {
	case domain.ModeMCQ:
		return PhaseAwaitingChoice
	case domain.ModeLayeredReveal:
		if it.err != nil {
			return PhaseLayersRevealed
		}
		return PhaseRevealingLayers
	case domain.ModeSentenceBySentence:
		if it.err != nil {
			return PhaseReadingDone
		}
		return PhaseReading
	default:
		return PhaseAwaitingReveal
	}
}
