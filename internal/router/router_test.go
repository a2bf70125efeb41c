package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/depack/cashflow-backend/internal/handlers"
	"github.com/depack/cashflow-backend/internal/response"
	"github.com/depack/cashflow-backend/internal/services"
	"github.com/depack/cashflow-backend/internal/store"
	"github.com/depack/cashflow-backend/pkg/logger"
)

func newTestRouter(apiKey string) http.Handler {
	log := logger.New("info", logger.NewTestHandler)
	tstore := store.NewTransactionStore()
	audit := store.NewAuditLog()

	deps := &handlers.Deps{
		Log:             log,
		ResponseHandler: response.New(log),
		PlannerSvc:      services.NewPlannerService(tstore, audit),
		LedgerSvc:       services.NewLedgerService(tstore),
		AdvisorSvc:      services.NewAdvisorService(nil, tstore, 30),
		TxReader:        tstore,
		AuditSvc:        audit,
	}
	return NewRouter(deps, apiKey)
}

func TestHealthzIsOpen(t *testing.T) {
	r := newTestRouter("secret")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("healthz must not require auth, got %d", rr.Code)
	}
}

func TestMetricsIsOpen(t *testing.T) {
	r := newTestRouter("secret")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics must not require auth, got %d", rr.Code)
	}
}

func TestAPIRequiresKey(t *testing.T) {
	r := newTestRouter("secret")

	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/transactions", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", rr.Code)
	}
}

func TestAddThenProjectFlow(t *testing.T) {
	r := newTestRouter("")

	body := `{"originalDate":"2099-01-01","partner":"Alpha Corp","invoiceNo":"INV-1",` +
		`"type":"Receivable","amount":5000,"currency":"USD","paymentType":"transfer"}`
	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add failed: %d %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/ledger?currency=USD", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("projection failed: %d %s", rr.Code, rr.Body.String())
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Rows []struct {
				Balance float64 `json:"balance"`
			} `json:"rows"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode projection: %v", err)
	}
	if !envelope.Success || len(envelope.Data.Rows) != services.DefaultHorizonDays+1 {
		t.Fatalf("projection envelope mismatch: success=%v rows=%d",
			envelope.Success, len(envelope.Data.Rows))
	}

	req = httptest.NewRequest(http.MethodGet, "/export", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Alpha Corp") {
		t.Fatalf("export missing transaction: %d %q", rr.Code, rr.Body.String())
	}
}

func TestAnalysisWithoutAdvisor(t *testing.T) {
	r := newTestRouter("")

	req := httptest.NewRequest(http.MethodGet, "/ledger/analysis", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	// no vertex client configured: permanent advisor failure
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 without advisor, got %d", rr.Code)
	}
}
