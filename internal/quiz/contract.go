package quiz

import (
	"fmt"

	"github.com/phrazzld/studydeck/internal/domain"
)

// Category groups modes by the shape of their action bar.
type Category int

const (
	RevealThenMark Category = iota
	ChoiceThenAdvance
	GatedRevealThenMark
	BatchConfirmThenNext
)

func (c Category) String() string {
	switch c {
	case RevealThenMark:
		return "reveal_then_mark"
	case ChoiceThenAdvance:
		return "choice_then_advance"
	case GatedRevealThenMark:
		return "gated_reveal_then_mark"
	case BatchConfirmThenNext:
		return "batch_confirm_then_next"
	default:
		return "unknown"
	}
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Input is the slice of session state a card consumes.
type Input int

const (
	InputSingle Input = iota
	InputTable
	InputClozeGroup
)

func (i Input) String() string {
	switch i {
	case InputSingle:
		return "single"
	case InputTable:
		return "table"
	case InputClozeGroup:
		return "cloze_group"
	default:
		return "unknown"
	}
}

// MarshalText encodes the input kind by name.
func (i Input) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// Contract is the presentation contract of a mode. SelfPaced cards signal
// their own completion (all layers or all sentences shown) rather than
// being directly answerable.
type Contract struct {
	Mode      domain.Mode `json:"mode"`
	Category  Category    `json:"category"`
	Input     Input       `json:"input"`
	SelfPaced bool        `json:"self_paced"`
}

// ContractFor returns the contract of mode.
func ContractFor(mode domain.Mode) (Contract, error) {
	c := Contract{Mode: mode}
	switch mode {
	case domain.ModeQA, domain.ModePoetryPair, domain.ModePoetryCompletion, domain.ModeInitialHint:
		c.Category, c.Input = RevealThenMark, InputSingle
	case domain.ModeMCQ:
		c.Category, c.Input = ChoiceThenAdvance, InputSingle
	case domain.ModeLayeredReveal:
		c.Category, c.Input, c.SelfPaced = GatedRevealThenMark, InputSingle, true
	case domain.ModePOS, domain.ModeVerbForms:
		c.Category, c.Input = BatchConfirmThenNext, InputTable
	case domain.ModeContextualCloze:
		c.Category, c.Input = BatchConfirmThenNext, InputClozeGroup
	case domain.ModeSentenceBySentence:
		c.Category, c.Input, c.SelfPaced = BatchConfirmThenNext, InputSingle, true
	default:
		return Contract{}, fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
	}
	return c, nil
}

func categoryOf(mode domain.Mode) (Category, bool) {
	c, err := ContractFor(mode)
	if err != nil {
		return 0, false
	}
	return c.Category, true
}
