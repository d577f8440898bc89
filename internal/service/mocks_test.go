package service

import (
	"context"
	"sync"

	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/events"
	"github.com/stretchr/testify/mock"
)

// MockBankReader mocks BankReader; it also satisfies quiz.BankFetcher.
type MockBankReader struct {
	mock.Mock
}

func (m *MockBankReader) FetchBanks(ctx context.Context) ([]*domain.QuestionBank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuestionBank), args.Error(1)
}

func (m *MockBankReader) FetchBankWithQuestions(ctx context.Context, id int64) (*domain.QuestionBank, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuestionBank), args.Error(1)
}

// recordingEmitter keeps every emitted event.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.SessionEvent
	err    error
}

func (r *recordingEmitter) EmitEvent(_ context.Context, e *events.SessionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingEmitter) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func qaBank(id int64, n int) *domain.QuestionBank {
	b := &domain.QuestionBank{ID: id, Name: "Bank", Category: "英文", Mode: domain.ModeQA}
	for i := 1; i <= n; i++ {
		b.Questions = append(b.Questions, &domain.Question{
			ID:      int64(i),
			BankID:  id,
			Content: "question",
			Answer:  "answer",
		})
	}
	b.QuestionCount = n
	return b
}
