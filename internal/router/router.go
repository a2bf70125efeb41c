package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/depack/cashflow-backend/internal/handlers"
	"github.com/depack/cashflow-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps, apiKey string) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(middleware.Metrics)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	txh := handlers.NewTransactionHandlers(deps)
	plh := handlers.NewPlanningHandlers(deps)
	ldh := handlers.NewLedgerHandlers(deps)
	oph := handlers.NewOptimizeHandlers(deps)
	adh := handlers.NewAuditHandlers(deps)

	auth := middleware.NewMiddleware(apiKey)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAPIKey)

		pr.Mount("/import", plh.ImportRoutes())
		pr.Mount("/transactions", txh.TransactionRoutes())
		pr.Mount("/transfers", plh.TransferRoutes())
		pr.Mount("/ledger", ldh.LedgerRoutes())
		pr.Mount("/optimize", oph.OptimizeRoutes())
		pr.Mount("/audit", adh.AuditRoutes())
		pr.Get("/export", ldh.Export)
	})

	return r
}
