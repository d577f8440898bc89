package quiz

import (
	"math/rand/v2"

	"github.com/phrazzld/studydeck/internal/domain"
)

// Viewport is the display class a session is sized for.
type Viewport string

const (
	ViewportDesktop Viewport = "desktop"
	ViewportMobile  Viewport = "mobile"
)

// Valid reports whether v is a known viewport.
func (v Viewport) Valid() bool {
	return v == ViewportDesktop || v == ViewportMobile
}

const (
	desktopClozeBatchSize = 5
	mobileClozeBatchSize  = 2
	tableBatchSize        = 5
	singleItemBatchSize   = 1
)

// BatchSize returns the number of questions resolved together in mode, or 0
// for modes that are answered one question at a time.
func BatchSize(mode domain.Mode, viewport Viewport) int {
	switch mode {
	case domain.ModeContextualCloze:
		if viewport == ViewportMobile {
			return mobileClozeBatchSize
		}
		return desktopClozeBatchSize
	case domain.ModePOS, domain.ModeVerbForms:
		return tableBatchSize
	case domain.ModeSentenceBySentence:
		return singleItemBatchSize
	default:
		return 0
	}
}

// TableRow is one row of a table batch. Shown names the single populated
// column visible before the answer is revealed; it is empty when the row has
// no populated columns.
type TableRow struct {
	Question *domain.Question
	Shown    string
}

// Visible reports whether column should be displayed.
func (r TableRow) Visible(column string, answerVisible bool) bool {
	return answerVisible || column == r.Shown
}

// Batch is the unit of work presented in a batch mode. Items are the
// questions resolved when the batch is completed; Rows and Options carry the
// table and cloze presentation chosen when the batch was drawn.
type Batch struct {
	Items   []*domain.Question
	Rows    []TableRow
	Options []string
}

// Empty reports whether the batch holds no work.
func (b Batch) Empty() bool {
	return len(b.Items) == 0
}

// Selector draws batches from the remaining pool.
type Selector struct {
	rng  *rand.Rand
	mode domain.Mode
	size int
}

// NewSelector returns a selector for mode sized for viewport.
func NewSelector(rng *rand.Rand, mode domain.Mode, viewport Viewport) Selector {
	return Selector{rng: rng, mode: mode, size: BatchSize(mode, viewport)}
}

// Size is the configured batch size.
func (s Selector) Size() int {
	return s.size
}

// Next builds the next batch from pool. Non-batch modes and an empty pool
// yield an empty batch.
func (s Selector) Next(pool []*domain.Question) Batch {
	if len(pool) == 0 || s.size == 0 {
		return Batch{}
	}
	switch s.mode {
	case domain.ModePOS, domain.ModeVerbForms:
		return s.table(pool)
	case domain.ModeContextualCloze:
		return s.cloze(pool)
	case domain.ModeSentenceBySentence:
		return Batch{Items: []*domain.Question{pool[0]}}
	default:
		return Batch{}
	}
}

func (s Selector) table(pool []*domain.Question) Batch {
	sample := Shuffle(s.rng, pool)
	if len(sample) > s.size {
		sample = sample[:s.size]
	}
	rows := make([]TableRow, len(sample))
	for i, q := range sample {
		rows[i] = TableRow{Question: q}
		if cols := renderableColumns(s.mode, q); len(cols) > 0 {
			rows[i].Shown = pick(s.rng, cols)
		}
	}
	return Batch{Items: sample, Rows: rows}
}

// renderableColumns returns the populated columns of q that the table
// actually displays, in header order.
func renderableColumns(mode domain.Mode, q *domain.Question) []string {
	populated := make(map[string]bool)
	for _, col := range q.PopulatedColumns(mode) {
		populated[col] = true
	}
	var cols []string
	for _, h := range TableHeaders(mode) {
		if populated[h] {
			cols = append(cols, h)
		}
	}
	return cols
}

type family struct {
	key     string
	members []*domain.Question
}

// groupFamilies groups pool by familyKey in first-appearance order. A
// question without a key is a family of its own.
func groupFamilies(pool []*domain.Question) []*family {
	var families []*family
	byKey := make(map[string]*family)
	for _, q := range pool {
		key := q.Metadata.FamilyKey()
		if key == "" {
			families = append(families, &family{members: []*domain.Question{q}})
			continue
		}
		f, ok := byKey[key]
		if !ok {
			f = &family{key: key}
			byKey[key] = f
			families = append(families, f)
		}
		f.members = append(f.members, q)
	}
	return families
}

func (s Selector) surfaceForm(q *domain.Question) string {
	if forms := q.Metadata.Forms(); len(forms) > 0 {
		return pick(s.rng, forms)
	}
	return q.Answer
}

func (s Selector) cloze(pool []*domain.Question) Batch {
	families := Shuffle(s.rng, groupFamilies(pool))
	n := min(len(families), s.size)
	selected, rest := families[:n], families[n:]

	group := make([]*domain.Question, 0, n)
	options := make([]string, 0, n+1)
	for _, f := range selected {
		q := pick(s.rng, f.members)
		group = append(group, q)
		options = append(options, s.surfaceForm(q))
	}
	options = dedupe(options)
	if d, ok := s.distractor(rest, options); ok {
		options = append(options, d)
	}

	return Batch{Items: group, Options: Shuffle(s.rng, options)}
}

// distractor draws one form from the unselected families that is not
// already an option. Families and their members are tried in random order.
func (s Selector) distractor(rest []*family, options []string) (string, bool) {
	taken := make(map[string]bool, len(options))
	for _, o := range options {
		taken[o] = true
	}
	for _, f := range Shuffle(s.rng, rest) {
		for _, q := range Shuffle(s.rng, f.members) {
			forms := q.Metadata.Forms()
			if len(forms) == 0 {
				forms = []string{q.Answer}
			}
			for _, form := range Shuffle(s.rng, forms) {
				if form != "" && !taken[form] {
					return form, true
				}
			}
		}
	}
	return "", false
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
