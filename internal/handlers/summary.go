package handlers

import (
	"errors"
	"net/http"

	"github.com/balancesheet-pro/apiserver/internal/log"
	"github.com/balancesheet-pro/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
)

// ReportHandler serves aggregated views of the authenticated user's ledger.
type ReportHandler struct {
	ledger     *services.LedgerService
	statements *services.StatementService
	logger     *log.Logger
}

func NewReportHandler(ledgerService *services.LedgerService, statements *services.StatementService, logger *log.Logger) *ReportHandler {
	return &ReportHandler{
		ledger:     ledgerService,
		statements: statements,
		logger:     logger.WithComponent(log.ComponentLedger),
	}
}

// ReportRouter registers the summary and statement routes.
func ReportRouter(r chi.Router, handler *ReportHandler) {
	r.Get("/summary", handler.Summary)
	r.Route("/statement", func(r chi.Router) {
		r.Get("/", handler.Statement)
		r.Post("/export", handler.ExportStatement)
		r.Get("/exports/{exportID}", handler.GetExport)
	})
}

// Summary returns totals and counts for the requested period.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.ledger.Summary(r.Context(), userID, filter)
	if err != nil {
		writeServiceError(w, r, h.logger, "compute summary", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Statement returns the balance sheet view for the requested period.
func (h *ReportHandler) Statement(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sheet, err := h.statements.BalanceSheet(r.Context(), userID, filter)
	if err != nil {
		writeServiceError(w, r, h.logger, "build statement", err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

// ExportStatement stores the balance sheet in object storage.
func (h *ReportHandler) ExportStatement(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.statements.Export(r.Context(), userID, filter)
	if err != nil {
		if errors.Is(err, services.ErrExportUnavailable) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeServiceError(w, r, h.logger, "export statement", err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// GetExport streams back a stored statement.
func (h *ReportHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	data, err := h.statements.Fetch(r.Context(), userID, chi.URLParam(r, "exportID"))
	switch {
	case errors.Is(err, services.ErrExportUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, services.ErrExportNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		writeServiceError(w, r, h.logger, "fetch statement", err)
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
