package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/studydeck/internal/api/shared"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/quiz"
	"github.com/phrazzld/studydeck/internal/redact"
	"github.com/phrazzld/studydeck/internal/service"
)

// SessionHandler serves live study sessions.
type SessionHandler struct {
	sessions service.SessionService
	logger   *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions service.SessionService, logger *slog.Logger) *SessionHandler {
	if sessions == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("sessions cannot be nil for SessionHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}
	return &SessionHandler{
		sessions: sessions,
		logger:   logger.With(slog.String("component", "session_handler")),
	}
}

// CreateSession handles POST /sessions requests.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid create session body", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	snap, err := h.sessions.Create(r.Context(), req.BankID, quiz.Viewport(req.Viewport))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("session created", slog.String("session_id", snap.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(snap))
}

// GetSession handles GET /sessions/{id} requests.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	snap, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(snap))
}

// DispatchAction handles POST /sessions/{id}/actions requests.
// An action that does not apply in the current phase still returns 200 with
// applied set to false.
func (h *SessionHandler) DispatchAction(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req ActionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid action body", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cmd, err := req.Command()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	snap, err := h.sessions.Dispatch(r.Context(), id, cmd)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := sessionToResponse(snap)
	applied := snap.Applied
	resp.Applied = &applied
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// DeleteSession handles DELETE /sessions/{id} requests.
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Warn("invalid session ID format", slog.String("session_id", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}
