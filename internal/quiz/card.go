package quiz

import (
	"strings"

	"github.com/phrazzld/studydeck/internal/domain"
)

// CardKind names a card variant.
type CardKind string

const (
	KindContentError CardKind = "content_error"
)

// Card is the closed set of card variants. Each variant carries exactly the
// data its renderer needs; hidden answers are left out until revealed.
type Card interface {
	Kind() CardKind
	isCard()
}

// QACard is a plain question with an optional answer.
type QACard struct {
	QuestionID    int64  `json:"question_id"`
	Prompt        string `json:"prompt"`
	Answer        string `json:"answer,omitempty"`
	AnswerVisible bool   `json:"answer_visible"`
}

// ChoiceCard is a multiple choice question in presented option order.
// Correct is only set once a choice has been made.
type ChoiceCard struct {
	QuestionID int64    `json:"question_id"`
	Prompt     string   `json:"prompt"`
	Options    []string `json:"options"`
	Selected   *int     `json:"selected,omitempty"`
	Correct    *int     `json:"correct,omitempty"`
	Locked     bool     `json:"locked"`
}

// PoetryPairCard shows one line of a couplet and asks for the other.
type PoetryPairCard struct {
	QuestionID    int64  `json:"question_id"`
	FirstLine     string `json:"first_line,omitempty"`
	SecondLine    string `json:"second_line,omitempty"`
	PromptIsFirst bool   `json:"prompt_is_first"`
	AnswerVisible bool   `json:"answer_visible"`
	Title         string `json:"title"`
	Poet          string `json:"poet"`
}

// PoemLine is one line of a poetry completion card.
type PoemLine struct {
	Text   string `json:"text"`
	Hidden bool   `json:"hidden"`
}

// PoetryCompletionCard shows a poem with some lines blanked out. Blanked
// lines carry a mask of the same length until the answer is shown.
type PoetryCompletionCard struct {
	QuestionID    int64      `json:"question_id"`
	Lines         []PoemLine `json:"lines"`
	AnswerVisible bool       `json:"answer_visible"`
	Title         string     `json:"title"`
	Poet          string     `json:"poet"`
}

// RevealedLayer is a layer of meaning already shown.
type RevealedLayer struct {
	Meaning     string `json:"meaning"`
	Example     []Span `json:"example"`
	Translation string `json:"translation,omitempty"`
}

// LayeredRevealCard shows a word and the meanings revealed so far.
type LayeredRevealCard struct {
	QuestionID int64           `json:"question_id"`
	Word       string          `json:"word"`
	Layers     []RevealedLayer `json:"layers"`
	Revealed   int             `json:"revealed"`
	Total      int             `json:"total"`
}

// InitialHintCard gives a definition and the first letter of the word.
type InitialHintCard struct {
	QuestionID     int64  `json:"question_id"`
	Hint           string `json:"hint"`
	Definition     string `json:"definition"`
	Word           string `json:"word,omitempty"`
	ChineseMeaning string `json:"chinese_meaning,omitempty"`
	AnswerVisible  bool   `json:"answer_visible"`
}

// SentenceCard is a script read one sentence at a time.
type SentenceCard struct {
	QuestionID int64      `json:"question_id"`
	Title      string     `json:"title"`
	Sentences  []Sentence `json:"sentences"`
	Revealed   int        `json:"revealed"`
	Total      int        `json:"total"`
}

// TableCell is one form in a table row. Text is empty when the cell is
// hidden or the row has no form for the column.
type TableCell struct {
	Column  string `json:"column"`
	Text    string `json:"text,omitempty"`
	Meaning string `json:"meaning,omitempty"`
	Present bool   `json:"present"`
	Visible bool   `json:"visible"`
}

// TableCardRow is one question of a table batch.
type TableCardRow struct {
	QuestionID int64       `json:"question_id"`
	Label      string      `json:"label,omitempty"`
	Cells      []TableCell `json:"cells"`
}

// TableCard is a batch of word-form rows under fixed column headers.
type TableCard struct {
	Mode          domain.Mode    `json:"mode"`
	Headers       []string       `json:"headers"`
	Rows          []TableCardRow `json:"rows"`
	AnswerVisible bool           `json:"answer_visible"`
}

// ClozeItem is one sentence of a cloze group split around its blank.
type ClozeItem struct {
	QuestionID int64    `json:"question_id"`
	Parts      []string `json:"parts"`
	Answer     string   `json:"answer,omitempty"`
}

// ClozeCard is a group of cloze sentences sharing one option list.
type ClozeCard struct {
	Items         []ClozeItem `json:"items"`
	Options       []string    `json:"options"`
	AnswerVisible bool        `json:"answer_visible"`
}

// ContentErrorCard replaces a question whose content is unusable in its mode.
type ContentErrorCard struct {
	QuestionID int64       `json:"question_id"`
	Mode       domain.Mode `json:"mode"`
	Message    string      `json:"message"`
}

func (QACard) Kind() CardKind               { return CardKind(domain.ModeQA) }
func (ChoiceCard) Kind() CardKind           { return CardKind(domain.ModeMCQ) }
func (PoetryPairCard) Kind() CardKind       { return CardKind(domain.ModePoetryPair) }
func (PoetryCompletionCard) Kind() CardKind { return CardKind(domain.ModePoetryCompletion) }
func (LayeredRevealCard) Kind() CardKind    { return CardKind(domain.ModeLayeredReveal) }
func (InitialHintCard) Kind() CardKind      { return CardKind(domain.ModeInitialHint) }
func (SentenceCard) Kind() CardKind         { return CardKind(domain.ModeSentenceBySentence) }
func (c TableCard) Kind() CardKind          { return CardKind(c.Mode) }
func (ClozeCard) Kind() CardKind            { return CardKind(domain.ModeContextualCloze) }
func (ContentErrorCard) Kind() CardKind     { return KindContentError }

func (QACard) isCard()               {}
func (ChoiceCard) isCard()           {}
func (PoetryPairCard) isCard()       {}
func (PoetryCompletionCard) isCard() {}
func (LayeredRevealCard) isCard()    {}
func (InitialHintCard) isCard()      {}
func (SentenceCard) isCard()         {}
func (TableCard) isCard()            {}
func (ClozeCard) isCard()            {}
func (ContentErrorCard) isCard()     {}

var (
	posHeaders  = []string{"N.", "V.", "ADJ.", "ADV."}
	verbHeaders = []string{"Present simple", "Present participle", "Past simple", "Past participle", "Chinese meaning"}
)

// TableHeaders returns the fixed column order of a table mode.
func TableHeaders(mode domain.Mode) []string {
	switch mode {
	case domain.ModePOS:
		return append([]string(nil), posHeaders...)
	case domain.ModeVerbForms:
		return append([]string(nil), verbHeaders...)
	default:
		return nil
	}
}

// Render maps the session's current unit of work to its card. It reports
// false when there is nothing to show.
func Render(s *Session) (Card, bool) {
	if s.phase == PhaseEmpty || s.phase == PhaseCompleted {
		return nil, false
	}
	if it := s.item; it != nil && it.err != nil {
		return ContentErrorCard{QuestionID: it.question.ID, Mode: s.mode, Message: it.err.Error()}, true
	}

	visible := s.AnswerVisible()
	switch s.mode {
	case domain.ModeQA:
		return renderQA(s.item, visible), true
	case domain.ModeMCQ:
		return renderChoice(s.item), true
	case domain.ModePoetryPair:
		return renderPoetryPair(s.item, visible), true
	case domain.ModePoetryCompletion:
		return renderPoetryCompletion(s.item, visible), true
	case domain.ModeLayeredReveal:
		return renderLayered(s.item), true
	case domain.ModeInitialHint:
		return renderInitialHint(s.item, visible), true
	case domain.ModeSentenceBySentence:
		return renderSentences(s.item), true
	case domain.ModePOS, domain.ModeVerbForms:
		return renderTable(s.mode, s.batch, visible), true
	case domain.ModeContextualCloze:
		return renderCloze(s.batch, visible), true
	default:
		return nil, false
	}
}

func renderQA(it *itemState, visible bool) QACard {
	c := QACard{QuestionID: it.question.ID, Prompt: it.question.Content, AnswerVisible: visible}
	if visible {
		c.Answer = it.question.Answer
	}
	return c
}

func renderChoice(it *itemState) ChoiceCard {
	c := ChoiceCard{
		QuestionID: it.question.ID,
		Prompt:     it.question.Content,
		Options:    append([]string(nil), it.options...),
	}
	if it.selected >= 0 {
		selected, correct := it.selected, it.correct
		c.Selected, c.Correct, c.Locked = &selected, &correct, true
	}
	return c
}

func renderPoetryPair(it *itemState, visible bool) PoetryPairCard {
	title, poet := attribution(it.question)
	c := PoetryPairCard{
		QuestionID:    it.question.ID,
		PromptIsFirst: it.contentFirst,
		AnswerVisible: visible,
		Title:         title,
		Poet:          poet,
	}
	if it.contentFirst || visible {
		c.FirstLine = it.question.Content
	}
	if !it.contentFirst || visible {
		c.SecondLine = it.question.Answer
	}
	return c
}

func renderPoetryCompletion(it *itemState, visible bool) PoetryCompletionCard {
	title, poet := attribution(it.question)
	lines := make([]PoemLine, len(it.lines))
	for i, text := range it.lines {
		hidden := it.hidden[i]
		if hidden && !visible {
			text = MaskLine(text)
		}
		lines[i] = PoemLine{Text: text, Hidden: hidden}
	}
	return PoetryCompletionCard{
		QuestionID:    it.question.ID,
		Lines:         lines,
		AnswerVisible: visible,
		Title:         title,
		Poet:          poet,
	}
}

func renderLayered(it *itemState) LayeredRevealCard {
	shown := make([]RevealedLayer, 0, it.layersShown)
	for _, l := range it.layers[:it.layersShown] {
		shown = append(shown, RevealedLayer{
			Meaning:     l.Meaning,
			Example:     HighlightSpans(l.Example),
			Translation: l.Translation,
		})
	}
	return LayeredRevealCard{
		QuestionID: it.question.ID,
		Word:       it.question.Content,
		Layers:     shown,
		Revealed:   it.layersShown,
		Total:      len(it.layers),
	}
}

func renderInitialHint(it *itemState, visible bool) InitialHintCard {
	c := InitialHintCard{
		QuestionID:    it.question.ID,
		Hint:          InitialHint(it.question.Content),
		Definition:    it.question.Answer,
		AnswerVisible: visible,
	}
	if visible {
		c.Word = it.question.Content
		c.ChineseMeaning = it.question.Metadata.ChineseMeaning()
	}
	return c
}

func renderSentences(it *itemState) SentenceCard {
	return SentenceCard{
		QuestionID: it.question.ID,
		Title:      it.question.Content,
		Sentences:  append([]Sentence(nil), it.sentences[:it.sentencesShown]...),
		Revealed:   it.sentencesShown,
		Total:      len(it.sentences),
	}
}

func renderTable(mode domain.Mode, b Batch, visible bool) TableCard {
	headers := TableHeaders(mode)
	rows := make([]TableCardRow, 0, len(b.Rows))
	for _, row := range b.Rows {
		rows = append(rows, TableCardRow{
			QuestionID: row.Question.ID,
			Label:      row.Question.Content,
			Cells:      tableCells(mode, headers, row, visible),
		})
	}
	return TableCard{Mode: mode, Headers: headers, Rows: rows, AnswerVisible: visible}
}

func tableCells(mode domain.Mode, headers []string, row TableRow, visible bool) []TableCell {
	var words, meanings map[string]string
	switch mode {
	case domain.ModePOS:
		forms, _ := row.Question.Metadata.POSForms()
		words = make(map[string]string, len(forms))
		meanings = make(map[string]string, len(forms))
		for col, f := range forms {
			words[col], meanings[col] = f.Word, f.Meaning
		}
	case domain.ModeVerbForms:
		words, _ = row.Question.Metadata.VerbForms()
	}

	cells := make([]TableCell, len(headers))
	for i, col := range headers {
		cell := TableCell{Column: col, Present: strings.TrimSpace(words[col]) != ""}
		cell.Visible = !cell.Present || row.Visible(col, visible)
		if cell.Present && cell.Visible {
			cell.Text = words[col]
		}
		// Meanings stay hidden until the answer is shown, even on the shown cell.
		if cell.Present && visible {
			cell.Meaning = meanings[col]
		}
		cells[i] = cell
	}
	return cells
}

func renderCloze(b Batch, visible bool) ClozeCard {
	items := make([]ClozeItem, len(b.Items))
	for i, q := range b.Items {
		items[i] = ClozeItem{QuestionID: q.ID, Parts: SplitCloze(q.Content)}
		if visible {
			items[i].Answer = q.Answer
		}
	}
	return ClozeCard{Items: items, Options: append([]string(nil), b.Options...), AnswerVisible: visible}
}
