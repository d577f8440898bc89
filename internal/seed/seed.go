// Package seed loads question banks from a JSON manifest and question files
// into the database.
package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/store"
)

// ErrInvalidManifest is returned when the manifest cannot be decoded.
var ErrInvalidManifest = errors.New("invalid seed manifest")

// BankSpec describes one bank in the manifest.
type BankSpec struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	CoverImageURL string     `json:"cover_image_url"`
	Mode          string     `json:"mode"`
	DataFile      string     `json:"dataFile"`
	Category      string     `json:"category"`
	SubBanks      []BankSpec `json:"subBanks"`
}

// questionRecord is one entry of a question file.
type questionRecord struct {
	Content            string          `json:"content"`
	Answer             string          `json:"answer"`
	Options            []string        `json:"options"`
	CorrectOptionIndex *int            `json:"correctOptionIndex"`
	Metadata           domain.Metadata `json:"metadata"`
}

// Summary reports what a run inserted.
type Summary struct {
	Banks     int
	Questions int
	// Skipped lists data files that could not be read or parsed.
	Skipped []string
}

// Options tunes a Seeder.
type Options struct {
	// Strict fails the run on an unreadable data file instead of leaving
	// the bank empty.
	Strict bool
}

// Seeder replaces the stored banks with the contents of a manifest.
type Seeder struct {
	db     *sql.DB
	banks  store.BankStore
	data   fs.FS
	opts   Options
	logger *slog.Logger
}

// NewSeeder creates a Seeder writing through banks and reading question
// files from data. If logger is nil, the default logger is used.
func NewSeeder(db *sql.DB, banks store.BankStore, data fs.FS, opts Options, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		db:     db,
		banks:  banks,
		data:   data,
		opts:   opts,
		logger: logger.With(slog.String("component", "seeder")),
	}
}

// ParseManifest decodes a manifest: a JSON array of bank specs.
func ParseManifest(raw []byte) ([]BankSpec, error) {
	var specs []BankSpec
	if err := json.Unmarshal(raw, &specs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return specs, nil
}

// LoadManifest reads and decodes the manifest at name within fsys.
func LoadManifest(fsys fs.FS, name string) ([]BankSpec, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(raw)
}

// Run deletes every stored bank and inserts specs, all in one transaction.
func (s *Seeder) Run(ctx context.Context, specs []BankSpec) (*Summary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	summary := &Summary{}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		banks := s.banks.WithTx(tx)
		if err := banks.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete existing banks: %w", err)
		}
		log.Info("existing banks deleted")

		for _, spec := range specs {
			if err := s.insert(ctx, banks, spec, nil, summary); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("seed complete",
		slog.Int("banks", summary.Banks),
		slog.Int("questions", summary.Questions),
		slog.Int("skipped_files", len(summary.Skipped)))
	return summary, nil
}

func (s *Seeder) insert(
	ctx context.Context,
	banks store.BankStore,
	spec BankSpec,
	parent *domain.QuestionBank,
	summary *Summary,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	bank := &domain.QuestionBank{
		Name:          spec.Name,
		Description:   spec.Description,
		CoverImageURL: spec.CoverImageURL,
		Category:      spec.Category,
		Mode:          domain.Mode(spec.Mode),
	}
	if parent != nil {
		bank.ParentID = &parent.ID
		if strings.TrimSpace(bank.Category) == "" {
			bank.Category = parent.Name
		}
	}
	if err := banks.CreateBank(ctx, bank); err != nil {
		return fmt.Errorf("create bank %q: %w", spec.Name, err)
	}
	summary.Banks++
	log.Info("created bank", slog.String("name", bank.Name), slog.Int64("bank_id", bank.ID))

	if spec.DataFile != "" {
		questions, err := s.readQuestions(spec.DataFile, bank.ID)
		switch {
		case err != nil && s.opts.Strict:
			return err
		case err != nil:
			log.Warn("skipping data file",
				slog.String("file", spec.DataFile),
				slog.String("error", err.Error()))
			summary.Skipped = append(summary.Skipped, spec.DataFile)
		case len(questions) > 0:
			if err := banks.CreateQuestions(ctx, questions); err != nil {
				return fmt.Errorf("insert questions for %q: %w", spec.Name, err)
			}
			summary.Questions += len(questions)
			log.Info("inserted questions",
				slog.String("file", spec.DataFile),
				slog.Int("count", len(questions)))
		}
	}

	for _, child := range spec.SubBanks {
		if len(child.SubBanks) > 0 {
			return fmt.Errorf("%w: sub-bank %q of %q has its own sub-banks", ErrInvalidManifest, child.Name, spec.Name)
		}
		if err := s.insert(ctx, banks, child, bank, summary); err != nil {
			return err
		}
	}
	return nil
}

// readQuestions decodes a question file. Data file names are relative to
// the data directory even when written with a leading slash.
func (s *Seeder) readQuestions(name string, bankID int64) ([]*domain.Question, error) {
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	raw, err := fs.ReadFile(s.data, clean)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var records []questionRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	questions := make([]*domain.Question, len(records))
	for i, r := range records {
		questions[i] = &domain.Question{
			BankID:             bankID,
			Content:            r.Content,
			Answer:             r.Answer,
			Options:            r.Options,
			CorrectOptionIndex: r.CorrectOptionIndex,
			Metadata:           r.Metadata,
		}
	}
	return questions, nil
}
