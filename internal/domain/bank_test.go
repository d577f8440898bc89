package domain

import (
	"errors"
	"testing"
)

func TestQuestionBankValidate(t *testing.T) {
	t.Parallel()

	self := int64(5)
	tests := []struct {
		name    string
		bank    QuestionBank
		wantErr error
	}{
		{"valid", QuestionBank{Name: "Verbs", Mode: ModeVerbForms}, nil},
		{"blank name", QuestionBank{Name: "  ", Mode: ModeQA}, ErrValidation},
		{"unknown mode", QuestionBank{Name: "x", Mode: "flashcards"}, ErrInvalidMode},
		{"own parent", QuestionBank{ID: 5, Name: "x", Mode: ModeQA, ParentID: &self}, ErrInvalidID},
		{
			"nested twice",
			QuestionBank{Name: "x", Mode: ModeQA, SubBanks: []*QuestionBank{
				{Name: "child", Mode: ModeQA, SubBanks: []*QuestionBank{{Name: "grandchild", Mode: ModeQA}}},
			}},
			ErrValidation,
		},
	}

	for _, tt := range tests {
		err := tt.bank.Validate()
		if tt.wantErr == nil {
			if err != nil {
				t.Errorf("%s: expected no error, got %v", tt.name, err)
			}
			continue
		}
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.wantErr, err)
		}
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("%s: expected a ValidationError, got %T", tt.name, err)
		}
	}
}

func TestQuestionBankHierarchy(t *testing.T) {
	t.Parallel()

	parentID := int64(1)
	child := &QuestionBank{ID: 2, ParentID: &parentID}
	parent := &QuestionBank{ID: 1, SubBanks: []*QuestionBank{child}}

	if !parent.IsTopLevel() || child.IsTopLevel() {
		t.Error("Expected only the parent to be top level")
	}
	if got, ok := parent.FindSubBank(2); !ok || got != child {
		t.Error("Expected to find child bank")
	}
	if _, ok := parent.FindSubBank(3); ok {
		t.Error("Expected unknown child to be missing")
	}
}
