package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/studydeck/internal/domain"
)

// BankStore persists question banks and their questions.
type BankStore interface {
	// FetchBanks returns every bank, top-level and child, ordered by id.
	// Questions are not loaded; QuestionCount is populated instead.
	FetchBanks(ctx context.Context) ([]*domain.QuestionBank, error)

	// FetchBankWithQuestions returns one bank with its questions and its
	// direct children, each with their own questions.
	// Returns ErrBankNotFound if the bank does not exist.
	FetchBankWithQuestions(ctx context.Context, id int64) (*domain.QuestionBank, error)

	// CreateBank inserts bank and assigns its generated ID.
	// Returns domain validation errors if the bank is invalid and
	// ErrInvalidEntity if its parent does not exist.
	CreateBank(ctx context.Context, bank *domain.QuestionBank) error

	// CreateQuestions inserts questions in order, assigning generated IDs.
	// It should run inside a transaction so a failure leaves no partial rows:
	//
	//	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//	    return banks.WithTx(tx).CreateQuestions(ctx, questions)
	//	})
	CreateQuestions(ctx context.Context, questions []*domain.Question) error

	// DeleteAll removes every bank and question.
	DeleteAll(ctx context.Context) error

	// WithTx returns a BankStore bound to tx.
	WithTx(tx *sql.Tx) BankStore
}
