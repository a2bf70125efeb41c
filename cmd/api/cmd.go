package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/depack/cashflow-backend/internal/bootstrap"
	"github.com/depack/cashflow-backend/internal/config"
	"github.com/depack/cashflow-backend/internal/handlers"
	"github.com/depack/cashflow-backend/internal/response"
	"github.com/depack/cashflow-backend/internal/router"
	"github.com/depack/cashflow-backend/internal/services"
	"github.com/depack/cashflow-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)

	// stores
	tstore := store.NewTransactionStore()
	audit := store.NewAuditLog()

	// services
	planner := services.NewPlannerService(tstore, audit)
	ledger := services.NewLedgerService(tstore)
	advisor := services.NewAdvisorService(nil, tstore, cfg.MaxDeferralDays)
	if bs.Vertex != nil {
		advisor = services.NewAdvisorService(bs.Vertex, tstore, cfg.MaxDeferralDays)
	}

	// dependencies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = response.New(bs.Log)
	deps.PlannerSvc = planner
	deps.LedgerSvc = ledger
	deps.AdvisorSvc = advisor
	deps.TxReader = tstore
	deps.AuditSvc = audit

	// router
	r := router.NewRouter(deps, bs.APIKey)
	bs.Log.Info("cashflow api listening", "port", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
