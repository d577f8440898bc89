package quiz

import (
	"github.com/phrazzld/studydeck/internal/domain"
)

// SubBankRef is an entry of the sub-bank selector.
type SubBankRef struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// View is the presentation snapshot of an orchestrator.
type View struct {
	LoadState      LoadState     `json:"load_state"`
	Error          string        `json:"error,omitempty"`
	BankID         int64         `json:"bank_id,omitempty"`
	BankName       string        `json:"bank_name,omitempty"`
	Mode           domain.Mode   `json:"mode,omitempty"`
	Contract       *Contract     `json:"contract,omitempty"`
	Phase          Phase         `json:"phase"`
	CardKind       CardKind      `json:"card_kind,omitempty"`
	Card           Card          `json:"card,omitempty"`
	AnswerVisible  bool          `json:"answer_visible"`
	Progress       Progress      `json:"progress"`
	CorrectCount   int           `json:"correct_count"`
	IncorrectCount int           `json:"incorrect_count"`
	Completed      bool          `json:"completed"`
	Empty          bool          `json:"empty"`
	Actions        []Control     `json:"actions"`
	SubBanks       []SubBankRef  `json:"sub_banks,omitempty"`
	ReturnTo       *ReturnTarget `json:"return_to,omitempty"`
	AutoPronounce  bool          `json:"auto_pronounce"`
}

// View builds the current snapshot.
func (o *Orchestrator) View() View {
	v := View{LoadState: o.state, Actions: []Control{}}
	if o.state == LoadFailed && o.loadErr != nil {
		v.Error = o.loadErr.Error()
	}
	if o.state != LoadReady {
		return v
	}

	s := o.session
	bank := s.Bank()
	if bank != nil {
		v.BankID, v.BankName, v.Mode = bank.ID, bank.Name, bank.Mode
		if c, err := ContractFor(bank.Mode); err == nil {
			v.Contract = &c
		}
	}
	v.Phase = s.Phase()
	if card, ok := Render(s); ok {
		v.Card, v.CardKind = card, card.Kind()
	}
	v.AnswerVisible = s.AnswerVisible()
	v.Progress = s.Progress()
	v.CorrectCount = s.CorrectCount()
	v.IncorrectCount = s.IncorrectCount()
	v.Completed = s.IsCompleted()
	v.Empty = s.Phase() == PhaseEmpty
	if actions := AvailableActions(s); actions != nil {
		v.Actions = actions
	}
	for _, sub := range o.SubBanks() {
		v.SubBanks = append(v.SubBanks, SubBankRef{
			ID:     sub.ID,
			Name:   sub.Name,
			Active: bank != nil && sub.ID == bank.ID,
		})
	}
	if target, ok := o.ReturnTarget(); ok {
		v.ReturnTo = &target
	}
	v.AutoPronounce = o.autoPronounce
	return v
}
