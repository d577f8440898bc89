package domain

import (
	"encoding/json"
	"sort"
	"strings"
)

// Metadata keys read by the session engine.
const (
	MetaFamilyKey      = "familyKey"
	MetaForms          = "forms"
	MetaPOSForms       = "pos_forms"
	MetaVerbForms      = "verb_forms"
	MetaTitle          = "title"
	MetaPoet           = "poet"
	MetaChineseMeaning = "chineseMeaning"
)

// Question is a single piece of study content belonging to a bank.
//
// Content is the prompt. Depending on the bank's mode it may embed a cloze
// placeholder or pipe-separated poem lines. Answer is plain text, a JSON
// array of meaning/example pairs (layered reveal) or a pipe-delimited script
// (sentence by sentence).
type Question struct {
	ID                 int64    `json:"id"`
	BankID             int64    `json:"bank_id"`
	Content            string   `json:"content"`
	Answer             string   `json:"answer"`
	Options            []string `json:"options,omitempty"`
	CorrectOptionIndex *int     `json:"correct_option_index,omitempty"`
	Metadata           Metadata `json:"metadata,omitempty"`
}

// Metadata is the open, mode-specific attribute map of a question. Values
// are kept raw so each accessor can decode leniently.
type Metadata map[string]json.RawMessage

// POSForm is one cell of a part-of-speech row.
type POSForm struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning,omitempty"`
}

// PoemInfo carries attribution for poetry modes.
type PoemInfo struct {
	Title string
	Poet  string
}

func (m Metadata) str(key string) string {
	raw, ok := m[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// FamilyKey returns the cloze family the question belongs to, or "".
func (m Metadata) FamilyKey() string {
	return m.str(MetaFamilyKey)
}

// Forms returns the surface forms usable as cloze options. Non-string and
// blank entries are dropped.
func (m Metadata) Forms() []string {
	raw, ok := m[MetaForms]
	if !ok {
		return nil
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	forms := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		forms = append(forms, s)
	}
	return forms
}

// POSForms decodes the part-of-speech table. Null columns decode to a zero
// POSForm, which PopulatedColumns treats as empty.
func (m Metadata) POSForms() (map[string]POSForm, error) {
	raw, ok := m[MetaPOSForms]
	if !ok {
		return nil, nil
	}
	var cells map[string]*POSForm
	if err := json.Unmarshal(raw, &cells); err != nil {
		return nil, err
	}
	out := make(map[string]POSForm, len(cells))
	for col, cell := range cells {
		if cell == nil {
			out[col] = POSForm{}
			continue
		}
		out[col] = *cell
	}
	return out, nil
}

// VerbForms decodes the verb form table (column name to form).
func (m Metadata) VerbForms() (map[string]string, error) {
	raw, ok := m[MetaVerbForms]
	if !ok {
		return nil, nil
	}
	var cells map[string]*string
	if err := json.Unmarshal(raw, &cells); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(cells))
	for col, cell := range cells {
		if cell == nil {
			out[col] = ""
			continue
		}
		out[col] = *cell
	}
	return out, nil
}

// Poem returns the poem attribution.
func (m Metadata) Poem() PoemInfo {
	return PoemInfo{Title: m.str(MetaTitle), Poet: m.str(MetaPoet)}
}

// ChineseMeaning returns the Chinese gloss, or "".
func (m Metadata) ChineseMeaning() string {
	return m.str(MetaChineseMeaning)
}

// PopulatedColumns returns, in sorted order, the table columns of q that hold
// a form for the given table mode. Rows in other modes have none.
func (q *Question) PopulatedColumns(mode Mode) []string {
	var cols []string
	switch mode {
	case ModePOS:
		cells, err := q.Metadata.POSForms()
		if err != nil {
			return nil
		}
		for col, cell := range cells {
			if strings.TrimSpace(cell.Word) != "" {
				cols = append(cols, col)
			}
		}
	case ModeVerbForms:
		cells, err := q.Metadata.VerbForms()
		if err != nil {
			return nil
		}
		for col, form := range cells {
			if strings.TrimSpace(form) != "" {
				cols = append(cols, col)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

// HasChoices reports whether q carries a usable multiple-choice payload.
func (q *Question) HasChoices() bool {
	if len(q.Options) == 0 || q.CorrectOptionIndex == nil {
		return false
	}
	idx := *q.CorrectOptionIndex
	return idx >= 0 && idx < len(q.Options)
}
