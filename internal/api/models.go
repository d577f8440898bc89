package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/quiz"
	"github.com/phrazzld/studydeck/internal/redact"
	"github.com/phrazzld/studydeck/internal/service"
)

// CreateSessionRequest defines the payload for starting a study session.
type CreateSessionRequest struct {
	BankID   int64  `json:"bank_id"  validate:"required,gt=0"`
	Viewport string `json:"viewport" validate:"omitempty,oneof=desktop mobile"`
}

// ActionRequest defines the payload for a session command.
type ActionRequest struct {
	Action  string `json:"action"            validate:"required"`
	Correct bool   `json:"correct,omitempty"`
	Index   *int   `json:"index,omitempty"   validate:"omitempty,gte=0"`
	Scope   string `json:"scope,omitempty"   validate:"omitempty,oneof=all incorrect correct"`
	BankID  int64  `json:"bank_id,omitempty" validate:"gte=0"`
	Text    string `json:"text,omitempty"    validate:"max=2000"`
}

// Command converts the request into an engine command. Choosing an option
// requires an explicit index.
func (r ActionRequest) Command() (quiz.Command, error) {
	cmd := quiz.Command{
		Action:  quiz.Action(r.Action),
		Correct: r.Correct,
		Scope:   quiz.RestartScope(r.Scope),
		BankID:  r.BankID,
		Text:    r.Text,
	}
	if r.Index != nil {
		cmd.Index = *r.Index
	} else if cmd.Action == quiz.ActionSelectChoice {
		return quiz.Command{}, domain.NewValidationError("index", "is required for select_choice", nil)
	}
	return cmd, nil
}

// SessionResponse is returned by every session endpoint.
type SessionResponse struct {
	ID uuid.UUID `json:"id"`
	// Applied is present only on action responses.
	Applied *bool     `json:"applied,omitempty"`
	Speak   []string  `json:"speak,omitempty"`
	View    quiz.View `json:"view"`
}

// CatalogResponse lists the browsable banks.
type CatalogResponse struct {
	Categories []service.Category `json:"categories"`
}

// BankResponse describes one bank and its sub-banks.
type BankResponse struct {
	Bank *domain.QuestionBank `json:"bank"`
}

func sessionToResponse(s *service.Snapshot) SessionResponse {
	view := s.View
	if view.Error != "" {
		view.Error = redact.String(view.Error)
	}
	return SessionResponse{ID: s.ID, Speak: s.Speak, View: view}
}
