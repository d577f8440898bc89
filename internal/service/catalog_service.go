package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/platform/logger"
)

// UncategorizedLabel names the category of banks stored without one.
const UncategorizedLabel = "未分类"

// BankReader is the subset of store.BankStore the catalog needs.
type BankReader interface {
	FetchBanks(ctx context.Context) ([]*domain.QuestionBank, error)
	FetchBankWithQuestions(ctx context.Context, id int64) (*domain.QuestionBank, error)
}

// Category groups top-level banks for browsing.
type Category struct {
	Name  string                 `json:"name"`
	Banks []*domain.QuestionBank `json:"banks"`
}

// CatalogService exposes the bank catalog.
type CatalogService interface {
	// Catalog returns categories in order of first appearance, each holding
	// its top-level banks with their children attached. Questions are not
	// included.
	Catalog(ctx context.Context) ([]Category, error)

	// Bank returns one bank with its children, without questions.
	// Returns ErrBankNotFound if the bank does not exist.
	Bank(ctx context.Context, id int64) (*domain.QuestionBank, error)
}

type catalogServiceImpl struct {
	banks  BankReader
	logger *slog.Logger
}

// NewCatalogService creates a CatalogService. If logger is nil, the default
// logger is used.
func NewCatalogService(banks BankReader, logger *slog.Logger) CatalogService {
	if banks == nil {
		panic("banks cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogServiceImpl{
		banks:  banks,
		logger: logger.With(slog.String("component", "catalog_service")),
	}
}

// Catalog implements CatalogService.Catalog.
func (s *catalogServiceImpl) Catalog(ctx context.Context) ([]Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	banks, err := s.banks.FetchBanks(ctx)
	if err != nil {
		log.Error("failed to fetch banks", slog.String("error", err.Error()))
		return nil, NewServiceError("catalog", "failed to fetch banks", err)
	}

	tops := make(map[int64]*domain.QuestionBank)
	var order []*domain.QuestionBank
	for _, b := range banks {
		if b.IsTopLevel() {
			top := *b
			top.SubBanks = nil
			tops[b.ID] = &top
			order = append(order, &top)
		}
	}
	for _, b := range banks {
		if b.IsTopLevel() {
			continue
		}
		parent, ok := tops[*b.ParentID]
		if !ok {
			log.Warn("skipping bank with unknown parent",
				slog.Int64("bank_id", b.ID),
				slog.Int64("parent_id", *b.ParentID))
			continue
		}
		child := *b
		parent.SubBanks = append(parent.SubBanks, &child)
	}

	var categories []Category
	index := make(map[string]int)
	for _, b := range order {
		name := strings.TrimSpace(b.Category)
		if name == "" {
			name = UncategorizedLabel
		}
		i, ok := index[name]
		if !ok {
			i = len(categories)
			index[name] = i
			categories = append(categories, Category{Name: name})
		}
		categories[i].Banks = append(categories[i].Banks, b)
	}

	log.Debug("built catalog",
		slog.Int("banks", len(banks)),
		slog.Int("categories", len(categories)))
	return categories, nil
}

// Bank implements CatalogService.Bank.
func (s *catalogServiceImpl) Bank(ctx context.Context, id int64) (*domain.QuestionBank, error) {
	bank, err := s.banks.FetchBankWithQuestions(ctx, id)
	if err != nil {
		return nil, NewServiceError("get_bank", "failed to fetch bank", err)
	}
	return withoutQuestions(bank), nil
}

func withoutQuestions(b *domain.QuestionBank) *domain.QuestionBank {
	out := *b
	out.Questions = nil
	if len(b.SubBanks) > 0 {
		out.SubBanks = make([]*domain.QuestionBank, len(b.SubBanks))
		for i, sub := range b.SubBanks {
			out.SubBanks[i] = withoutQuestions(sub)
		}
	}
	return &out
}
