package quiz

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/stretchr/testify/require"
)

func question(id int64, content, answer string) *domain.Question {
	return &domain.Question{ID: id, BankID: 1, Content: content, Answer: answer}
}

func questions(n int) []*domain.Question {
	qs := make([]*domain.Question, n)
	for i := range qs {
		qs[i] = question(int64(i+1), fmt.Sprintf("prompt %d", i+1), fmt.Sprintf("answer %d", i+1))
	}
	return qs
}

func bankOf(mode domain.Mode, qs ...*domain.Question) *domain.QuestionBank {
	return &domain.QuestionBank{ID: 1, Name: "bank", Category: "test", Mode: mode, Questions: qs}
}

func choiceQuestion(id int64, options []string, correct int) *domain.Question {
	q := question(id, fmt.Sprintf("choice %d", id), options[correct])
	q.Options = options
	q.CorrectOptionIndex = &correct
	return q
}

func meta(t *testing.T, values map[string]any) domain.Metadata {
	t.Helper()
	m := make(domain.Metadata, len(values))
	for k, v := range values {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		m[k] = raw
	}
	return m
}

func clozeQuestion(t *testing.T, id int64, family string, forms ...string) *domain.Question {
	t.Helper()
	q := question(id, fmt.Sprintf("sentence %d (___) end", id), forms[0])
	q.Metadata = meta(t, map[string]any{"familyKey": family, "forms": forms})
	return q
}

func started(t *testing.T, seed uint64, viewport Viewport, bank *domain.QuestionBank) *Session {
	t.Helper()
	s := NewSession(viewport, NewRand(seed))
	require.True(t, s.Start(bank.Questions, bank))
	return s
}

func ids(qs []*domain.Question) []int64 {
	out := make([]int64, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func answeredIDs(answers []Answer) []int64 {
	out := make([]int64, len(answers))
	for i, a := range answers {
		out[i] = a.Question.ID
	}
	return out
}
