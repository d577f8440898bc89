package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/store"
)

const bankColumns = `b.id, b.name, b.description, b.cover_image_url, b.category, b.mode, b.parent_id`

// BankStore implements store.BankStore on database/sql.
type BankStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewBankStore creates a BankStore over db. If logger is nil, the default
// logger is used.
func NewBankStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *BankStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BankStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "bank_store")),
	}
}

var _ store.BankStore = (*BankStore)(nil)

// WithTx implements store.BankStore.WithTx.
func (s *BankStore) WithTx(tx *sql.Tx) store.BankStore {
	return &BankStore{db: tx, dialect: s.dialect, logger: s.logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBank(row rowScanner, extra ...any) (*domain.QuestionBank, error) {
	var (
		b        domain.QuestionBank
		mode     string
		parentID sql.NullInt64
	)
	dest := append([]any{&b.ID, &b.Name, &b.Description, &b.CoverImageURL, &b.Category, &mode, &parentID}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	b.Mode = domain.Mode(mode)
	if parentID.Valid {
		id := parentID.Int64
		b.ParentID = &id
	}
	return &b, nil
}

// FetchBanks implements store.BankStore.FetchBanks.
func (s *BankStore) FetchBanks(ctx context.Context) ([]*domain.QuestionBank, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + bankColumns + `,
			(SELECT COUNT(*) FROM questions q WHERE q.bank_id = b.id)
		FROM question_banks b
		ORDER BY b.id
	`
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query))
	if err != nil {
		log.Error("failed to query banks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("bank", "fetch", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var banks []*domain.QuestionBank
	for rows.Next() {
		var count int
		b, err := scanBank(rows, &count)
		if err != nil {
			return nil, store.NewStoreError("bank", "fetch", "scan failed", err)
		}
		b.QuestionCount = count
		banks = append(banks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("bank", "fetch", "iteration failed", err)
	}

	log.Debug("fetched banks", slog.Int("count", len(banks)))
	return banks, nil
}

// FetchBankWithQuestions implements store.BankStore.FetchBankWithQuestions.
func (s *BankStore) FetchBankWithQuestions(ctx context.Context, id int64) (*domain.QuestionBank, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + bankColumns + ` FROM question_banks b WHERE b.id = ?`
	bank, err := scanBank(s.db.QueryRowContext(ctx, s.dialect.Rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("bank not found", slog.Int64("bank_id", id))
			return nil, fmt.Errorf("%w: id %d", store.ErrBankNotFound, id)
		}
		log.Error("failed to fetch bank", slog.Int64("bank_id", id), slog.String("error", err.Error()))
		return nil, store.NewStoreError("bank", "fetch", "query failed", MapError(err))
	}

	if bank.Questions, err = s.fetchQuestions(ctx, bank.ID); err != nil {
		return nil, err
	}
	bank.QuestionCount = len(bank.Questions)

	if bank.SubBanks, err = s.fetchChildren(ctx, bank.ID); err != nil {
		return nil, err
	}

	log.Debug("fetched bank",
		slog.Int64("bank_id", id),
		slog.Int("questions", len(bank.Questions)),
		slog.Int("sub_banks", len(bank.SubBanks)))
	return bank, nil
}

func (s *BankStore) fetchChildren(ctx context.Context, parentID int64) ([]*domain.QuestionBank, error) {
	query := `SELECT ` + bankColumns + ` FROM question_banks b WHERE b.parent_id = ? ORDER BY b.id`
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), parentID)
	if err != nil {
		return nil, store.NewStoreError("bank", "fetch", "children query failed", MapError(err))
	}

	var children []*domain.QuestionBank
	for rows.Next() {
		child, err := scanBank(rows)
		if err != nil {
			_ = rows.Close()
			return nil, store.NewStoreError("bank", "fetch", "children scan failed", err)
		}
		children = append(children, child)
	}
	err = rows.Err()
	_ = rows.Close()
	if err != nil {
		return nil, store.NewStoreError("bank", "fetch", "children iteration failed", err)
	}

	// Rows are closed before the nested queries so a single-connection pool
	// is not starved.
	for _, child := range children {
		if child.Questions, err = s.fetchQuestions(ctx, child.ID); err != nil {
			return nil, err
		}
		child.QuestionCount = len(child.Questions)
	}
	return children, nil
}

func (s *BankStore) fetchQuestions(ctx context.Context, bankID int64) ([]*domain.Question, error) {
	query := `
		SELECT id, bank_id, content, answer, options, correct_option_index, metadata
		FROM questions
		WHERE bank_id = ?
		ORDER BY position, id
	`
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), bankID)
	if err != nil {
		return nil, store.NewStoreError("question", "fetch", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var questions []*domain.Question
	for rows.Next() {
		var (
			q        domain.Question
			options  sql.NullString
			correct  sql.NullInt64
			metadata sql.NullString
		)
		if err := rows.Scan(&q.ID, &q.BankID, &q.Content, &q.Answer, &options, &correct, &metadata); err != nil {
			return nil, store.NewStoreError("question", "fetch", "scan failed", err)
		}
		if options.Valid && options.String != "" {
			if err := json.Unmarshal([]byte(options.String), &q.Options); err != nil {
				return nil, store.NewStoreError("question", "fetch",
					fmt.Sprintf("question %d has invalid options", q.ID), err)
			}
		}
		if correct.Valid {
			idx := int(correct.Int64)
			q.CorrectOptionIndex = &idx
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &q.Metadata); err != nil {
				return nil, store.NewStoreError("question", "fetch",
					fmt.Sprintf("question %d has invalid metadata", q.ID), err)
			}
		}
		questions = append(questions, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("question", "fetch", "iteration failed", err)
	}
	return questions, nil
}

// CreateBank implements store.BankStore.CreateBank.
func (s *BankStore) CreateBank(ctx context.Context, bank *domain.QuestionBank) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := bank.Validate(); err != nil {
		log.Warn("bank validation failed during create",
			slog.String("name", bank.Name),
			slog.String("error", err.Error()))
		return err
	}

	var parentID any
	if bank.ParentID != nil {
		parentID = *bank.ParentID
	}

	query := `
		INSERT INTO question_banks (name, description, cover_image_url, category, mode, parent_id)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query),
		bank.Name,
		bank.Description,
		bank.CoverImageURL,
		bank.Category,
		string(bank.Mode),
		parentID,
	).Scan(&bank.ID)
	if err != nil {
		log.Error("failed to create bank",
			slog.String("name", bank.Name),
			slog.String("error", err.Error()))
		return store.NewStoreError("bank", "create", "insert failed", MapError(err))
	}

	log.Debug("bank created", slog.Int64("bank_id", bank.ID), slog.String("mode", bank.Mode.String()))
	return nil
}

func validateQuestion(q *domain.Question) error {
	if q.BankID <= 0 {
		return domain.NewValidationError("bank_id", "must reference a bank", domain.ErrInvalidID)
	}
	if strings.TrimSpace(q.Content) == "" {
		return domain.NewValidationError("content", "cannot be empty", domain.ErrValidation)
	}
	return nil
}

func nullableJSON(v any, empty bool) (any, error) {
	if empty {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// CreateQuestions implements store.BankStore.CreateQuestions.
func (s *BankStore) CreateQuestions(ctx context.Context, questions []*domain.Question) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`
		INSERT INTO questions (bank_id, position, content, answer, options, correct_option_index, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	for i, q := range questions {
		if err := validateQuestion(q); err != nil {
			log.Warn("question validation failed during create",
				slog.Int("position", i),
				slog.String("error", err.Error()))
			return fmt.Errorf("%w: question %d: %w", store.ErrInvalidEntity, i, err)
		}

		options, err := nullableJSON(q.Options, len(q.Options) == 0)
		if err != nil {
			return store.NewStoreError("question", "create", "encode options", err)
		}
		metadata, err := nullableJSON(q.Metadata, len(q.Metadata) == 0)
		if err != nil {
			return store.NewStoreError("question", "create", "encode metadata", err)
		}
		var correct any
		if q.CorrectOptionIndex != nil {
			correct = *q.CorrectOptionIndex
		}

		err = s.db.QueryRowContext(ctx, query,
			q.BankID, i, q.Content, q.Answer, options, correct, metadata,
		).Scan(&q.ID)
		if err != nil {
			log.Error("failed to create question",
				slog.Int64("bank_id", q.BankID),
				slog.Int("position", i),
				slog.String("error", err.Error()))
			return store.NewStoreError("question", "create", "insert failed", MapError(err))
		}
	}

	log.Debug("questions created", slog.Int("count", len(questions)))
	return nil
}

// DeleteAll implements store.BankStore.DeleteAll.
func (s *BankStore) DeleteAll(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, query := range []string{
		`DELETE FROM questions`,
		`DELETE FROM question_banks WHERE parent_id IS NOT NULL`,
		`DELETE FROM question_banks`,
	} {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			log.Error("failed to delete banks", slog.String("error", err.Error()))
			return store.NewStoreError("bank", "delete", "delete failed", MapError(err))
		}
	}

	log.Info("all banks deleted")
	return nil
}
