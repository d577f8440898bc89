package domain

import (
	"strings"
)

// QuestionBank is a named collection of questions sharing one mode.
//
// Banks nest exactly one level: a bank is either top-level (ParentID nil) or
// the child of a top-level bank. SubBanks is only populated on a bank loaded
// together with its children.
type QuestionBank struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	CoverImageURL string          `json:"cover_image_url,omitempty"`
	Category      string          `json:"category"`
	Mode          Mode            `json:"mode"`
	ParentID      *int64          `json:"parent_id,omitempty"`
	QuestionCount int             `json:"question_count"`
	Questions     []*Question     `json:"questions,omitempty"`
	SubBanks      []*QuestionBank `json:"sub_banks,omitempty"`
}

// IsTopLevel reports whether the bank has no parent.
func (b *QuestionBank) IsTopLevel() bool {
	return b.ParentID == nil
}

// Validate checks the fields required before a bank is stored.
func (b *QuestionBank) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return NewValidationError("name", "cannot be empty", ErrValidation)
	}
	if !b.Mode.Valid() {
		return NewValidationError("mode", "is not a known mode", ErrInvalidMode)
	}
	if b.ParentID != nil && *b.ParentID == b.ID && b.ID != 0 {
		return NewValidationError("parent_id", "cannot reference the bank itself", ErrInvalidID)
	}
	for _, sub := range b.SubBanks {
		if len(sub.SubBanks) > 0 {
			return NewValidationError("sub_banks", "cannot be nested more than one level", ErrValidation)
		}
	}
	return nil
}

// FindSubBank returns the direct child with the given id.
func (b *QuestionBank) FindSubBank(id int64) (*QuestionBank, bool) {
	for _, sub := range b.SubBanks {
		if sub.ID == id {
			return sub, true
		}
	}
	return nil, false
}
