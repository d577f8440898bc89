package quiz

import (
	"testing"

	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	got := SplitSentences(" First line. | Second line. || New paragraph. |  | Last. ")

	assert.Equal(t, []Sentence{
		{Text: "First line."},
		{Text: "Second line."},
		{Text: "New paragraph.", MajorBreak: true},
		{Text: "Last."},
	}, got)
	assert.Empty(t, SplitSentences("  |  || "))
}

func TestParseLayers(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		want    int
		wantErr bool
	}{
		{name: "two pairs", answer: `[{"meaning":"m1","example":"e1"},{"meaning":"m2","example":"e2","translation":"t2"}]`, want: 2},
		{name: "not json", answer: "plain text", wantErr: true},
		{name: "object not array", answer: `{"meaning":"m"}`, wantErr: true},
		{name: "empty array", answer: `[]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layers, err := ParseLayers(tt.answer)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrMalformedContent)
				return
			}
			require.NoError(t, err)
			assert.Len(t, layers, tt.want)
		})
	}
}

func TestHighlightSpans(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Span
	}{
		{name: "plain", text: "no marks", want: []Span{{Text: "no marks"}}},
		{
			name: "middle",
			text: "She [ran] home.",
			want: []Span{{Text: "She "}, {Text: "ran", Highlighted: true}, {Text: " home."}},
		},
		{
			name: "edges",
			text: "[Go] and [run]",
			want: []Span{{Text: "Go", Highlighted: true}, {Text: " and "}, {Text: "run", Highlighted: true}},
		},
		{name: "unterminated", text: "a [b c", want: []Span{{Text: "a [b c"}}},
		{name: "empty brackets", text: "a [] [b]", want: []Span{{Text: "a [] "}, {Text: "b", Highlighted: true}}},
		{name: "empty", text: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HighlightSpans(tt.text))
		})
	}
}

func TestTextHelpers(t *testing.T) {
	assert.Equal(t, "She ran home.", StripHighlight("She [ran] home."))
	assert.Equal(t, "a ______", InitialHint("Apple"))
	assert.Equal(t, "", InitialHint(""))
	assert.Equal(t, "＿＿＿＿＿", MaskLine("床前明月光"))
	assert.Equal(t, []string{"I ", " home."}, SplitCloze("I (___) home."))
	assert.Equal(t, []string{"a", "b", "c"}, SplitPoem("a|b|c"))
}

func TestAttributionDefaults(t *testing.T) {
	title, poet := attribution(question(1, "x", "y"))
	assert.Equal(t, "无题", title)
	assert.Equal(t, "佚名", poet)

	q := question(2, "x", "y")
	q.Metadata = meta(t, map[string]any{"title": "静夜思", "poet": "李白"})
	title, poet = attribution(q)
	assert.Equal(t, "静夜思", title)
	assert.Equal(t, "李白", poet)
}
