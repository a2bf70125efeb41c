package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/depack/cashflow-backend/internal/dto"
	"github.com/depack/cashflow-backend/internal/errs"
	"github.com/depack/cashflow-backend/internal/models"
)

type stubLedgerService struct {
	currency models.Currency
	days     int
	start    time.Time
	resp     dto.LedgerResponse

	export string
}

func (s *stubLedgerService) ProjectCurrency(currency models.Currency, horizonDays int, startDate time.Time) dto.LedgerResponse {
	s.currency = currency
	s.days = horizonDays
	s.start = startDate
	return s.resp
}

func (s *stubLedgerService) Export() string { return s.export }

type stubAdvisorService struct {
	optimizeCalled bool
	optimizeDays   int
	optimizeRates  dto.Rates
	plan           dto.AIOptimizationPlan
	optimizeErr    error

	analyzeCalled   bool
	analyzeRows     []models.LedgerRow
	analyzeCurrency models.Currency
	analysis        string
	analyzeErr      error
}

func (s *stubAdvisorService) Optimize(ctx context.Context, maxDeferralDays int, rates dto.Rates) (dto.AIOptimizationPlan, error) {
	s.optimizeCalled = true
	s.optimizeDays = maxDeferralDays
	s.optimizeRates = rates
	return s.plan, s.optimizeErr
}

func (s *stubAdvisorService) Analyze(ctx context.Context, rows []models.LedgerRow, currency models.Currency) (string, error) {
	s.analyzeCalled = true
	s.analyzeRows = rows
	s.analyzeCurrency = currency
	return s.analysis, s.analyzeErr
}

func TestProjectHandlerDefaults(t *testing.T) {
	ledger := &stubLedgerService{resp: dto.LedgerResponse{Currency: models.CurrencyUSD}}
	resp := &stubResponseHandler{}
	h := NewLedgerHandlers(&Deps{ResponseHandler: resp, LedgerSvc: ledger, AdvisorSvc: &stubAdvisorService{}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.LedgerRoutes().ServeHTTP(rr, req)

	if ledger.currency != models.CurrencyUSD {
		t.Fatalf("currency must default to USD, got %s", ledger.currency)
	}
	if ledger.days != 0 || !ledger.start.IsZero() {
		t.Fatalf("defaults must pass through as zero values: days=%d start=%v", ledger.days, ledger.start)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected success 200, got %+v", resp)
	}
}

func TestProjectHandlerParams(t *testing.T) {
	ledger := &stubLedgerService{}
	resp := &stubResponseHandler{}
	h := NewLedgerHandlers(&Deps{ResponseHandler: resp, LedgerSvc: ledger, AdvisorSvc: &stubAdvisorService{}})

	req := httptest.NewRequest(http.MethodGet, "/?currency=EGP&days=30&start=2023-11-01", nil)
	rr := httptest.NewRecorder()
	h.LedgerRoutes().ServeHTTP(rr, req)

	if ledger.currency != models.CurrencyEGP || ledger.days != 30 {
		t.Fatalf("params not forwarded: currency=%s days=%d", ledger.currency, ledger.days)
	}
	if ledger.start.Format("2006-01-02") != "2023-11-01" {
		t.Fatalf("start not forwarded: %v", ledger.start)
	}
}

func TestProjectHandlerValidation(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"unknown currency", "?currency=GBP"},
		{"non-numeric days", "?days=soon"},
		{"negative days", "?days=-1"},
		{"malformed start", "?start=01/11/2023"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := &stubLedgerService{}
			resp := &stubResponseHandler{}
			h := NewLedgerHandlers(&Deps{ResponseHandler: resp, LedgerSvc: ledger, AdvisorSvc: &stubAdvisorService{}})

			req := httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
			rr := httptest.NewRecorder()
			h.LedgerRoutes().ServeHTTP(rr, req)

			var valErr *errs.ValidationError
			if !errors.As(resp.handleError, &valErr) {
				t.Fatalf("expected ValidationError, got %T", resp.handleError)
			}
		})
	}
}

func TestAnalyzeHandler(t *testing.T) {
	rows := []models.LedgerRow{{Date: "2023-11-01", Balance: -50}}
	ledger := &stubLedgerService{resp: dto.LedgerResponse{Currency: models.CurrencyEUR, Rows: rows}}
	advisor := &stubAdvisorService{analysis: "EUR dips negative in week one."}
	resp := &stubResponseHandler{}
	h := NewLedgerHandlers(&Deps{ResponseHandler: resp, LedgerSvc: ledger, AdvisorSvc: advisor})

	req := httptest.NewRequest(http.MethodGet, "/analysis?currency=EUR", nil)
	rr := httptest.NewRecorder()
	h.LedgerRoutes().ServeHTTP(rr, req)

	if !advisor.analyzeCalled || advisor.analyzeCurrency != models.CurrencyEUR {
		t.Fatalf("advisor not called with projection: %+v", advisor)
	}
	if len(advisor.analyzeRows) != 1 {
		t.Fatalf("projected rows not forwarded: %+v", advisor.analyzeRows)
	}
	payload, ok := resp.writeSuccessData.(dto.AnalysisResponse)
	if !ok || payload.Analysis != "EUR dips negative in week one." {
		t.Fatalf("unexpected payload: %+v", resp.writeSuccessData)
	}
}

func TestAnalyzeHandlerAdvisorError(t *testing.T) {
	ledger := &stubLedgerService{}
	advisor := &stubAdvisorService{analyzeErr: errs.NewAdvisorError("advisor call failed", true)}
	resp := &stubResponseHandler{}
	h := NewLedgerHandlers(&Deps{ResponseHandler: resp, LedgerSvc: ledger, AdvisorSvc: advisor})

	req := httptest.NewRequest(http.MethodGet, "/analysis", nil)
	rr := httptest.NewRecorder()
	h.LedgerRoutes().ServeHTTP(rr, req)

	var advErr *errs.AdvisorError
	if !errors.As(resp.handleError, &advErr) {
		t.Fatalf("expected AdvisorError, got %T", resp.handleError)
	}
}

func TestExportHandler(t *testing.T) {
	ledger := &stubLedgerService{export: "Original Date,Partner\n01/10/2023,\"Alpha\""}
	resp := &stubResponseHandler{}
	h := NewLedgerHandlers(&Deps{ResponseHandler: resp, LedgerSvc: ledger, AdvisorSvc: &stubAdvisorService{}})

	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	rr := httptest.NewRecorder()
	h.Export(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type mismatch: %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("disposition mismatch: %q", cd)
	}
	if rr.Body.String() != ledger.export {
		t.Fatalf("body mismatch: %q", rr.Body.String())
	}
}
