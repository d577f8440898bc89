package domain

// Mode selects both the card a bank is rendered with and the session
// strategy used to study it.
type Mode string

// Known modes. The set is closed: adding a mode means adding a render arm in
// the quiz package as well.
const (
	ModeQA                 Mode = "qa"
	ModeMCQ                Mode = "mcq"
	ModePoetryPair         Mode = "poetry_pair"
	ModePoetryCompletion   Mode = "poetry_completion"
	ModeLayeredReveal      Mode = "layered_reveal"
	ModeInitialHint        Mode = "initial_hint"
	ModeContextualCloze    Mode = "contextual_cloze"
	ModePOS                Mode = "pos"
	ModeVerbForms          Mode = "verb_forms"
	ModeSentenceBySentence Mode = "sbs"
)

var allModes = []Mode{
	ModeQA,
	ModeMCQ,
	ModePoetryPair,
	ModePoetryCompletion,
	ModeLayeredReveal,
	ModeInitialHint,
	ModeContextualCloze,
	ModePOS,
	ModeVerbForms,
	ModeSentenceBySentence,
}

// Modes returns every known mode.
func Modes() []Mode {
	out := make([]Mode, len(allModes))
	copy(out, allModes)
	return out
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	for _, known := range allModes {
		if m == known {
			return true
		}
	}
	return false
}

// IsBatch reports whether sessions in this mode are resolved a batch at a
// time rather than one question at a time.
func (m Mode) IsBatch() bool {
	switch m {
	case ModeContextualCloze, ModePOS, ModeVerbForms, ModeSentenceBySentence:
		return true
	default:
		return false
	}
}

// IsTable reports whether the mode renders a batch as a table of word forms.
func (m Mode) IsTable() bool {
	return m == ModePOS || m == ModeVerbForms
}

func (m Mode) String() string {
	return string(m)
}
