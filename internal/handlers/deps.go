package handlers

import (
	"log/slog"

	"github.com/depack/cashflow-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	PlannerSvc      PlannerService
	LedgerSvc       LedgerService
	AdvisorSvc      AdvisorService
	TxReader        TransactionReader
	AuditSvc        AuditService
}
