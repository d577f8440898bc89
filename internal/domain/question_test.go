package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestMetadataAccessors(t *testing.T) {
	t.Parallel()

	var m Metadata
	raw := `{
		"familyKey": " run ",
		"forms": ["ran", 3, "", "running"],
		"title": "静夜思",
		"poet": "李白",
		"chineseMeaning": "跑"
	}`
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if got := m.FamilyKey(); got != "run" {
		t.Errorf("Expected family key %q, got %q", "run", got)
	}
	if got := m.Forms(); !reflect.DeepEqual(got, []string{"ran", "running"}) {
		t.Errorf("Expected forms [ran running], got %v", got)
	}
	if got := m.Poem(); got.Title != "静夜思" || got.Poet != "李白" {
		t.Errorf("Unexpected poem info %+v", got)
	}
	if got := m.ChineseMeaning(); got != "跑" {
		t.Errorf("Expected chinese meaning, got %q", got)
	}

	var empty Metadata
	if empty.FamilyKey() != "" || empty.Forms() != nil {
		t.Error("Expected nil metadata to yield zero values")
	}
}

func TestPopulatedColumns(t *testing.T) {
	t.Parallel()

	pos := &Question{Metadata: Metadata{
		MetaPOSForms: json.RawMessage(`{"N.":{"word":"cat"},"V.":null,"ADJ.":{"word":"feline"},"ADV.":{"word":"  "}}`),
	}}
	if got := pos.PopulatedColumns(ModePOS); !reflect.DeepEqual(got, []string{"ADJ.", "N."}) {
		t.Errorf("Expected [ADJ. N.], got %v", got)
	}

	verb := &Question{Metadata: Metadata{
		MetaVerbForms: json.RawMessage(`{"Present simple":"run","Past simple":"ran","Past participle":null,"Chinese meaning":""}`),
	}}
	if got := verb.PopulatedColumns(ModeVerbForms); !reflect.DeepEqual(got, []string{"Past simple", "Present simple"}) {
		t.Errorf("Expected [Past simple Present simple], got %v", got)
	}

	if got := verb.PopulatedColumns(ModeQA); got != nil {
		t.Errorf("Expected no columns outside table modes, got %v", got)
	}

	broken := &Question{Metadata: Metadata{MetaPOSForms: json.RawMessage(`[1,2]`)}}
	if got := broken.PopulatedColumns(ModePOS); got != nil {
		t.Errorf("Expected no columns for malformed forms, got %v", got)
	}
}

func TestHasChoices(t *testing.T) {
	t.Parallel()

	idx := func(i int) *int { return &i }
	tests := []struct {
		name string
		q    Question
		want bool
	}{
		{"valid", Question{Options: []string{"a", "b"}, CorrectOptionIndex: idx(1)}, true},
		{"no options", Question{CorrectOptionIndex: idx(0)}, false},
		{"no index", Question{Options: []string{"a"}}, false},
		{"index out of range", Question{Options: []string{"a"}, CorrectOptionIndex: idx(1)}, false},
		{"negative index", Question{Options: []string{"a"}, CorrectOptionIndex: idx(-1)}, false},
	}
	for _, tt := range tests {
		if got := tt.q.HasChoices(); got != tt.want {
			t.Errorf("%s: HasChoices() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
