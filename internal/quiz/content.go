package quiz

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/phrazzld/studydeck/internal/domain"
)

const (
	// ClozePlaceholder marks the blank in a contextual cloze prompt.
	ClozePlaceholder = "(___)"

	poemLineSeparator  = "|"
	majorBreak         = "||"
	minorBreak         = "|"
	hiddenLineRune     = "＿"
	hintBlank          = " ______"
	anonymousPoet      = "佚名"
	untitledPoem       = "无题"
	maxHiddenPoemLines = 2
)

// Layer is one meaning/example pair of a layered reveal answer.
type Layer struct {
	Meaning     string `json:"meaning"`
	Example     string `json:"example"`
	Translation string `json:"translation,omitempty"`
}

// ParseLayers decodes a layered reveal answer. Anything other than a
// non-empty JSON array of pairs is malformed.
func ParseLayers(answer string) ([]Layer, error) {
	var layers []Layer
	if err := json.Unmarshal([]byte(answer), &layers); err != nil {
		return nil, fmt.Errorf("%w: answer is not a JSON array of meaning pairs: %v", domain.ErrMalformedContent, err)
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: answer has no meaning pairs", domain.ErrMalformedContent)
	}
	return layers, nil
}

// Sentence is one line of a sentence-by-sentence script.
type Sentence struct {
	Text       string `json:"text"`
	MajorBreak bool   `json:"major_break"`
}

// SplitSentences splits a script on "||" (paragraph) and "|" (line) breaks.
// Blank lines are dropped; the first line after a paragraph break is flagged.
func SplitSentences(script string) []Sentence {
	var out []Sentence
	for major, part := range strings.Split(script, majorBreak) {
		for minor, text := range strings.Split(strings.TrimSpace(part), minorBreak) {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			out = append(out, Sentence{Text: text, MajorBreak: minor == 0 && major > 0})
		}
	}
	return out
}

// SplitPoem splits poem content into its lines.
func SplitPoem(content string) []string {
	return strings.Split(content, poemLineSeparator)
}

// MaskLine replaces every rune of line with a full-width blank.
func MaskLine(line string) string {
	return strings.Repeat(hiddenLineRune, utf8.RuneCountInString(line))
}

// SplitCloze splits a cloze prompt around its placeholder.
func SplitCloze(content string) []string {
	return strings.Split(content, ClozePlaceholder)
}

// InitialHint returns the lowercased first letter of word followed by a blank.
func InitialHint(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if size == 0 {
		return ""
	}
	return string(unicode.ToLower(r)) + hintBlank
}

// Span is a run of example text, highlighted when it was bracketed.
type Span struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted,omitempty"`
}

// HighlightSpans splits text on "[word]" markers. Brackets are removed from
// the highlighted spans; an unterminated "[" or an empty "[]" is plain text.
func HighlightSpans(text string) []Span {
	var spans []Span
	var plain strings.Builder
	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, Span{Text: plain.String()})
			plain.Reset()
		}
	}

	rest := text
	for {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			break
		}
		end := strings.IndexByte(rest[open+1:], ']')
		if end < 0 {
			break
		}
		if end == 0 {
			plain.WriteString(rest[:open+2])
			rest = rest[open+2:]
			continue
		}
		plain.WriteString(rest[:open])
		flush()
		spans = append(spans, Span{Text: rest[open+1 : open+1+end], Highlighted: true})
		rest = rest[open+1+end+1:]
	}
	plain.WriteString(rest)
	flush()
	return spans
}

// StripHighlight removes highlight brackets, e.g. before pronouncing text.
func StripHighlight(text string) string {
	return strings.NewReplacer("[", "", "]", "").Replace(text)
}

func attribution(q *domain.Question) (title, poet string) {
	info := q.Metadata.Poem()
	title, poet = info.Title, info.Poet
	if title == "" {
		title = untitledPoem
	}
	if poet == "" {
		poet = anonymousPoet
	}
	return title, poet
}
