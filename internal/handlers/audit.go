package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/depack/cashflow-backend/internal/models"
	"github.com/depack/cashflow-backend/internal/response"
)

type AuditService interface {
	List() []models.LogEntry
}

type auditHandlers struct {
	ResponseHandler response.ResponseHandler
	AuditSvc        AuditService
}

func NewAuditHandlers(deps *Deps) *auditHandlers {
	return &auditHandlers{
		ResponseHandler: deps.ResponseHandler,
		AuditSvc:        deps.AuditSvc,
	}
}

func (h *auditHandlers) AuditRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	return r
}

func (h *auditHandlers) List(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.AuditSvc.List())
}
