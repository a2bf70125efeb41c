package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/depack/cashflow-backend/internal/dto"
	"github.com/depack/cashflow-backend/internal/errs"
	"github.com/depack/cashflow-backend/internal/models"
	"github.com/depack/cashflow-backend/internal/response"
)

type LedgerService interface {
	ProjectCurrency(currency models.Currency, horizonDays int, startDate time.Time) dto.LedgerResponse
	Export() string
}

type ledgerHandlers struct {
	ResponseHandler response.ResponseHandler
	LedgerSvc       LedgerService
	AdvisorSvc      AdvisorService
}

func NewLedgerHandlers(deps *Deps) *ledgerHandlers {
	return &ledgerHandlers{
		ResponseHandler: deps.ResponseHandler,
		LedgerSvc:       deps.LedgerSvc,
		AdvisorSvc:      deps.AdvisorSvc,
	}
}

func (h *ledgerHandlers) LedgerRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Project)
	r.Get("/analysis", h.Analyze)
	return r
}

func (h *ledgerHandlers) Project(w http.ResponseWriter, r *http.Request) {
	currency, err := currencyParam(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 0 {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("days must be a non-negative integer"))
			return
		}
	}

	var start time.Time
	if raw := r.URL.Query().Get("start"); raw != "" {
		start, err = time.Parse("2006-01-02", raw)
		if err != nil {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("start must be YYYY-MM-DD"))
			return
		}
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.LedgerSvc.ProjectCurrency(currency, days, start))
}

func (h *ledgerHandlers) Analyze(w http.ResponseWriter, r *http.Request) {
	currency, err := currencyParam(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	projection := h.LedgerSvc.ProjectCurrency(currency, 0, time.Time{})
	analysis, err := h.AdvisorSvc.Analyze(r.Context(), projection.Rows, currency)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.AnalysisResponse{
		Currency: currency,
		Analysis: analysis,
	})
}

// Export streams the current transaction set as a downloadable file, outside
// the JSON envelope.
func (h *ledgerHandlers) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cashflow_export.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.LedgerSvc.Export()))
}

func currencyParam(r *http.Request) (models.Currency, error) {
	currency := models.Currency(r.URL.Query().Get("currency"))
	if currency == "" {
		currency = models.CurrencyUSD
	}
	if !models.IsValidCurrency(currency) {
		return "", errs.NewValidationError("unknown currency: " + string(currency))
	}
	return currency, nil
}
