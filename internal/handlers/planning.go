package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/depack/cashflow-backend/internal/dto"
	"github.com/depack/cashflow-backend/internal/errs"
	"github.com/depack/cashflow-backend/internal/response"
)

type planningHandlers struct {
	ResponseHandler response.ResponseHandler
	PlannerSvc      PlannerService
}

func NewPlanningHandlers(deps *Deps) *planningHandlers {
	return &planningHandlers{
		ResponseHandler: deps.ResponseHandler,
		PlannerSvc:      deps.PlannerSvc,
	}
}

func (h *planningHandlers) ImportRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Import)
	return r
}

func (h *planningHandlers) TransferRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.InternalTransfer)
	return r
}

func (h *planningHandlers) Import(w http.ResponseWriter, r *http.Request) {
	var req dto.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("malformed request body"))
		return
	}
	if req.Content == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("content is required"))
		return
	}

	result := h.PlannerSvc.Import(req.Content, req.OpeningBalances)
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *planningHandlers) InternalTransfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("malformed request body"))
		return
	}
	if req.Date == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("date is required"))
		return
	}

	legs, err := h.PlannerSvc.InternalTransfer(req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, legs)
}
