package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/depack/cashflow-backend/internal/dto"
	"github.com/depack/cashflow-backend/internal/errs"
	"github.com/depack/cashflow-backend/internal/models"
	"github.com/depack/cashflow-backend/internal/response"
	"github.com/depack/cashflow-backend/internal/store"
)

type PlannerService interface {
	Import(content string, balances models.AccountBalances) dto.ImportResult
	Add(req dto.CreateTransactionRequest) (models.Transaction, error)
	Update(id string, patch store.TransactionPatch) (models.Transaction, error)
	ToggleLock(id string) (models.Transaction, error)
	Delete(id string)
	Split(id string, parts []dto.SplitPart) ([]models.Transaction, error)
	InternalTransfer(req dto.TransferRequest) ([]models.Transaction, error)
	ApplyPlan(plan dto.AIOptimizationPlan, rates dto.Rates) dto.ApplyPlanResult
}

type TransactionReader interface {
	List() []models.Transaction
}

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	PlannerSvc      PlannerService
	TxReader        TransactionReader
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		PlannerSvc:      deps.PlannerSvc,
		TxReader:        deps.TxReader,
	}
}

func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Add)
	r.Patch("/{transactionId}", h.Update)
	r.Delete("/{transactionId}", h.Delete)
	r.Post("/{transactionId}/lock", h.ToggleLock)
	r.Post("/{transactionId}/split", h.Split)
	return r
}

func (h *transactionHandlers) List(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.TxReader.List())
}

func (h *transactionHandlers) Add(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("malformed request body"))
		return
	}
	if req.Partner == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("partner is required"))
		return
	}
	if req.OriginalDate == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("originalDate is required"))
		return
	}

	t, err := h.PlannerSvc.Add(req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, t)
}

func (h *transactionHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "transactionId")
	var patch store.TransactionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("malformed request body"))
		return
	}

	t, err := h.PlannerSvc.Update(id, patch)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, t)
}

func (h *transactionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	// Missing ids fall through silently; delete is a no-op then.
	h.PlannerSvc.Delete(chi.URLParam(r, "transactionId"))
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *transactionHandlers) ToggleLock(w http.ResponseWriter, r *http.Request) {
	t, err := h.PlannerSvc.ToggleLock(chi.URLParam(r, "transactionId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, t)
}

func (h *transactionHandlers) Split(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "transactionId")
	var req dto.SplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("malformed request body"))
		return
	}

	parts, err := h.PlannerSvc.Split(id, req.Parts)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, parts)
}
