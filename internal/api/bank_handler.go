package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/studydeck/internal/api/shared"
	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/phrazzld/studydeck/internal/service"
)

// BankHandler serves the question bank catalog.
type BankHandler struct {
	catalog service.CatalogService
	logger  *slog.Logger
}

// NewBankHandler creates a new BankHandler.
func NewBankHandler(catalog service.CatalogService, logger *slog.Logger) *BankHandler {
	if catalog == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("catalog cannot be nil for BankHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for BankHandler")
	}
	return &BankHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("component", "bank_handler")),
	}
}

// ListBanks handles GET /banks requests.
// Top-level banks are grouped by category, each carrying its sub-banks.
func (h *BankHandler) ListBanks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	categories, err := h.catalog.Catalog(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list question banks")
		return
	}

	log.Debug("listed question banks", slog.Int("categories", len(categories)))
	shared.RespondWithJSON(w, r, http.StatusOK, CatalogResponse{Categories: categories})
}

// GetBank handles GET /banks/{id} requests.
func (h *BankHandler) GetBank(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	rawID := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		log.Warn("invalid bank ID format", slog.String("bank_id", rawID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid bank ID")
		return
	}

	bank, err := h.catalog.Bank(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BankResponse{Bank: bank})
}
