package handlers

import (
	"net/http"

	"github.com/balancesheet-pro/apiserver/internal/ledger"
	"github.com/balancesheet-pro/apiserver/internal/log"
	"github.com/balancesheet-pro/apiserver/internal/services"
	"github.com/balancesheet-pro/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// LedgerHandler serves the record collections of the authenticated user.
type LedgerHandler struct {
	ledger *services.LedgerService
	logger *log.Logger
}

func NewLedgerHandler(ledgerService *services.LedgerService, logger *log.Logger) *LedgerHandler {
	return &LedgerHandler{ledger: ledgerService, logger: logger.WithComponent(log.ComponentLedger)}
}

// LedgerRouter registers GET and POST for every record kind. Routes expect
// an authenticated subject in the request context.
func LedgerRouter(r chi.Router, handler *LedgerHandler) {
	for _, kind := range types.EntryKinds {
		r.Get("/"+string(kind), handler.ListEntries(kind))
		r.Post("/"+string(kind), handler.CreateEntry(kind))
	}
	r.Get("/"+string(types.KindLoans), handler.ListLoans)
	r.Post("/"+string(types.KindLoans), handler.CreateLoan)
}

func (h *LedgerHandler) ListEntries(kind types.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromContext(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		entries, err := h.ledger.ListEntries(r.Context(), kind, userID)
		if err != nil {
			writeServiceError(w, r, h.logger, "list "+string(kind), err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func (h *LedgerHandler) CreateEntry(kind types.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromContext(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var in ledger.EntryInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		entry, err := h.ledger.AddEntry(r.Context(), kind, userID, in)
		if err != nil {
			writeServiceError(w, r, h.logger, "create "+string(kind), err)
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	}
}

func (h *LedgerHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	loans, err := h.ledger.ListLoans(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, "list loans", err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

func (h *LedgerHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var in ledger.LoanInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	loan, err := h.ledger.AddLoan(r.Context(), userID, in)
	if err != nil {
		writeServiceError(w, r, h.logger, "create loan", err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}
