package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/depack/cashflow-backend/internal/dto"
	"github.com/depack/cashflow-backend/internal/errs"
	"github.com/depack/cashflow-backend/internal/models"
	"github.com/depack/cashflow-backend/internal/response"
)

type AdvisorService interface {
	Optimize(ctx context.Context, maxDeferralDays int, rates dto.Rates) (dto.AIOptimizationPlan, error)
	Analyze(ctx context.Context, rows []models.LedgerRow, currency models.Currency) (string, error)
}

type optimizeHandlers struct {
	ResponseHandler response.ResponseHandler
	AdvisorSvc      AdvisorService
	PlannerSvc      PlannerService
}

func NewOptimizeHandlers(deps *Deps) *optimizeHandlers {
	return &optimizeHandlers{
		ResponseHandler: deps.ResponseHandler,
		AdvisorSvc:      deps.AdvisorSvc,
		PlannerSvc:      deps.PlannerSvc,
	}
}

func (h *optimizeHandlers) OptimizeRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Compute)
	r.Post("/apply", h.Apply)
	return r
}

// Compute asks the advisor for a plan without touching the store. The caller
// reviews the plan and confirms application separately.
func (h *optimizeHandlers) Compute(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("malformed request body"))
		return
	}
	if req.Rates.EurUsd <= 0 || req.Rates.UsdEgp <= 0 {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("rates.eurUsd and rates.usdEgp must be positive"))
		return
	}

	plan, err := h.AdvisorSvc.Optimize(r.Context(), req.MaxDeferralDays, req.Rates)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, plan)
}

func (h *optimizeHandlers) Apply(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("malformed request body"))
		return
	}
	if req.Rates.EurUsd <= 0 || req.Rates.UsdEgp <= 0 {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("rates.eurUsd and rates.usdEgp must be positive"))
		return
	}

	result := h.PlannerSvc.ApplyPlan(req.Plan, req.Rates)
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}
