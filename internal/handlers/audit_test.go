package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/depack/cashflow-backend/internal/models"
)

type stubAuditService struct {
	entries []models.LogEntry
}

func (s *stubAuditService) List() []models.LogEntry { return s.entries }

func TestAuditListHandler(t *testing.T) {
	audit := &stubAuditService{entries: []models.LogEntry{
		{ID: "e1", Timestamp: time.Now(), Message: "Uploaded file with 2 transactions."},
	}}
	resp := &stubResponseHandler{}
	h := NewAuditHandlers(&Deps{ResponseHandler: resp, AuditSvc: audit})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.AuditRoutes().ServeHTTP(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected success 200, got %+v", resp)
	}
	entries, ok := resp.writeSuccessData.([]models.LogEntry)
	if !ok || len(entries) != 1 {
		t.Fatalf("unexpected payload: %+v", resp.writeSuccessData)
	}
}
