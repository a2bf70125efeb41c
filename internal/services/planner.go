package services

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/depack/cashflow-backend/internal/codec"
	"github.com/depack/cashflow-backend/internal/dto"
	"github.com/depack/cashflow-backend/internal/errs"
	"github.com/depack/cashflow-backend/internal/models"
	"github.com/depack/cashflow-backend/internal/store"
)

const (
	invoiceInternalTransfer = "INT-TRANSFER"
	invoiceAITransferOut    = "AI-TRF-OUT"
	invoiceAITransferIn     = "AI-TRF-IN"
	invoiceAIInjection      = "AI-INJECT"

	// Split amounts must cover the original within one cent.
	splitTolerance = 0.01
)

var mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cashflow_mutations_total",
	Help: "Completed mutation operations by type.",
}, []string{"operation"})

type plannerStore interface {
	Add(t models.Transaction) error
	Remove(id string)
	Update(id string, patch store.TransactionPatch) (models.Transaction, bool)
	ReplaceAll(list []models.Transaction)
	Get(id string) (models.Transaction, bool)
	List() []models.Transaction
	Balances() models.AccountBalances
	SetBalances(b models.AccountBalances)
}

type auditTrail interface {
	Append(message string) models.LogEntry
}

// plannerService implements the invariant-preserving mutation operations.
// Every operation appends a human-readable audit entry; plan application
// additionally logs one line per created transaction.
type plannerService struct {
	store    plannerStore
	audit    auditTrail
	clockNow func() time.Time
	newID    func() string
}

func NewPlannerService(st plannerStore, audit auditTrail) *plannerService {
	return &plannerService{
		store:    st,
		audit:    audit,
		clockNow: time.Now,
		newID:    uuid.NewString,
	}
}

// Import parses the uploaded content, assigns fresh identifiers, and
// force-advances any adjusted date earlier than today to today: a schedule
// uploaded with stale dates is replanned as of now, not treated as overdue.
// Original dates are left untouched so deferral limits stay anchored to the
// contractual due date. The whole set replaces the store atomically.
func (s *plannerService) Import(content string, balances models.AccountBalances) dto.ImportResult {
	now := s.clockNow()
	today := now.Format(isoDate)

	parsed := codec.Parse(content, now)
	txs := make([]models.Transaction, 0, len(parsed))
	clamped := 0
	for _, t := range parsed {
		if t.AdjustedDate < today {
			t.AdjustedDate = today
			clamped++
		}
		t.ID = s.newID()
		txs = append(txs, t)
	}

	s.store.ReplaceAll(txs)
	if balances != nil {
		s.store.SetBalances(balances)
	}

	s.audit.Append(fmt.Sprintf("Uploaded file with %d transactions.", len(txs)))
	s.audit.Append(fmt.Sprintf("%d transactions prior to %s were auto-adjusted to today.", clamped, today))
	b := s.store.Balances()
	s.audit.Append(fmt.Sprintf("Initial Balances set: EGP %v, USD %v, EUR %v",
		b[models.CurrencyEGP], b[models.CurrencyUSD], b[models.CurrencyEUR]))

	mutationsTotal.WithLabelValues("import").Inc()
	return dto.ImportResult{Count: len(txs), Clamped: clamped}
}

// Add records a manually entered transaction.
func (s *plannerService) Add(req dto.CreateTransactionRequest) (models.Transaction, error) {
	t := models.Transaction{
		ID:           s.newID(),
		OriginalDate: req.OriginalDate,
		AdjustedDate: req.AdjustedDate,
		Partner:      req.Partner,
		InvoiceNo:    req.InvoiceNo,
		Type:         req.Type,
		Amount:       req.Amount,
		Currency:     req.Currency,
		PaymentType:  req.PaymentType,
	}
	if t.AdjustedDate == "" {
		t.AdjustedDate = t.OriginalDate
	}
	if err := s.store.Add(t); err != nil {
		return models.Transaction{}, err
	}

	s.audit.Append(fmt.Sprintf("Manually added transaction: %s, %v %s", t.Partner, t.Amount, t.Currency))
	mutationsTotal.WithLabelValues("add").Inc()
	return t, nil
}

// Update merges the patch into an existing transaction. A date change on a
// locked transaction is dropped silently; the rest of the patch still
// applies. Date changes are audited with the day offset from the
// contractual due date. Interactive updates enforce no date bounds, so
// backdating corrections remain possible; only import clamps stale dates.
func (s *plannerService) Update(id string, patch store.TransactionPatch) (models.Transaction, error) {
	existing, ok := s.store.Get(id)
	if !ok {
		return models.Transaction{}, errs.NewNotFoundError(fmt.Sprintf("transaction %s not found", id))
	}

	dateChanged := patch.AdjustedDate != nil && *patch.AdjustedDate != existing.AdjustedDate
	if dateChanged && existing.IsLocked {
		patch.AdjustedDate = nil
		dateChanged = false
	}

	updated, ok := s.store.Update(id, patch)
	if !ok {
		return models.Transaction{}, errs.NewNotFoundError(fmt.Sprintf("transaction %s not found", id))
	}

	if dateChanged {
		diff := daysBetween(updated.OriginalDate, updated.AdjustedDate)
		s.audit.Append(fmt.Sprintf("Changed payment date of %q to %s (%d days later).",
			updated.Partner, updated.AdjustedDate, diff))
	}
	mutationsTotal.WithLabelValues("update").Inc()
	return updated, nil
}

// AdjustDate moves the planned settlement date. Locked transactions are left
// untouched and the call reports the unchanged record.
func (s *plannerService) AdjustDate(id, newDate string) (models.Transaction, error) {
	return s.Update(id, store.TransactionPatch{AdjustedDate: &newDate})
}

// ToggleLock flips the lock flag. Deliberately lightweight: no validation,
// no dedicated audit message.
func (s *plannerService) ToggleLock(id string) (models.Transaction, error) {
	existing, ok := s.store.Get(id)
	if !ok {
		return models.Transaction{}, errs.NewNotFoundError(fmt.Sprintf("transaction %s not found", id))
	}
	locked := !existing.IsLocked
	updated, _ := s.store.Update(id, store.TransactionPatch{IsLocked: &locked})
	mutationsTotal.WithLabelValues("toggle_lock").Inc()
	return updated, nil
}

// Delete removes a transaction. Missing ids are a harmless no-op and leave
// no audit trace.
func (s *plannerService) Delete(id string) {
	t, ok := s.store.Get(id)
	if !ok {
		return
	}
	s.store.Remove(id)
	s.audit.Append(fmt.Sprintf("Deleted transaction: %s - %v %s", t.Partner, t.Amount, t.Currency))
	mutationsTotal.WithLabelValues("delete").Inc()
}

// Split replaces one transaction with parts that must sum to the original
// amount within a one-cent tolerance. Parts inherit every other field, get
// fresh identifiers and suffixed invoice numbers, and always start
// unlocked. The replacement is all-or-nothing.
func (s *plannerService) Split(id string, parts []dto.SplitPart) ([]models.Transaction, error) {
	original, ok := s.store.Get(id)
	if !ok {
		return nil, errs.NewNotFoundError(fmt.Sprintf("transaction %s not found", id))
	}
	if len(parts) == 0 {
		return nil, errs.NewValidationError("split requires at least one part")
	}

	var total float64
	for _, p := range parts {
		if p.Amount <= 0 {
			return nil, errs.NewValidationError(fmt.Sprintf("split part amount must be positive: %v", p.Amount))
		}
		total += p.Amount
	}
	if math.Abs(total-original.Amount) > splitTolerance {
		return nil, errs.NewValidationError(fmt.Sprintf(
			"split parts sum to %v, original amount is %v", total, original.Amount))
	}

	next := make([]models.Transaction, 0, len(s.store.List())+len(parts))
	for _, t := range s.store.List() {
		if t.ID != id {
			next = append(next, t)
		}
	}
	created := make([]models.Transaction, 0, len(parts))
	for i, p := range parts {
		part := original
		part.ID = s.newID()
		part.Amount = p.Amount
		part.AdjustedDate = p.Date
		part.IsLocked = false
		part.InvoiceNo = fmt.Sprintf("%s-S%d", original.InvoiceNo, i+1)
		created = append(created, part)
		next = append(next, part)
	}
	s.store.ReplaceAll(next)

	s.audit.Append(fmt.Sprintf("Split transaction for %s (%v %s) into %d parts.",
		original.Partner, original.Amount, original.Currency, len(parts)))
	mutationsTotal.WithLabelValues("split").Inc()
	return created, nil
}

// InternalTransfer records a completed movement between two accounts as a
// locked pair: a receivable of amount in the credit account and a payable of
// amount*rate in the debit account, each naming the other account as
// partner. Rate is user-supplied, 1 unit of credit currency = rate units of
// debit currency.
func (s *plannerService) InternalTransfer(req dto.TransferRequest) ([]models.Transaction, error) {
	if req.Amount <= 0 {
		return nil, errs.NewValidationError(fmt.Sprintf("transfer amount must be positive: %v", req.Amount))
	}
	if req.Rate <= 0 {
		return nil, errs.NewValidationError(fmt.Sprintf("transfer rate must be positive: %v", req.Rate))
	}

	creditLeg := models.Transaction{
		ID:           s.newID(),
		OriginalDate: req.Date,
		AdjustedDate: req.Date,
		Partner:      string(req.DebitAccount),
		InvoiceNo:    invoiceInternalTransfer,
		Type:         models.TypeReceivable,
		Amount:       req.Amount,
		Currency:     req.CreditAccount,
		PaymentType:  models.PaymentTransfer,
		IsLocked:     true,
	}
	debitLeg := models.Transaction{
		ID:           s.newID(),
		OriginalDate: req.Date,
		AdjustedDate: req.Date,
		Partner:      string(req.CreditAccount),
		InvoiceNo:    invoiceInternalTransfer,
		Type:         models.TypePayable,
		Amount:       req.Amount * req.Rate,
		Currency:     req.DebitAccount,
		PaymentType:  models.PaymentTransfer,
		IsLocked:     true,
	}

	if err := s.store.Add(creditLeg); err != nil {
		return nil, err
	}
	if err := s.store.Add(debitLeg); err != nil {
		s.store.Remove(creditLeg.ID)
		return nil, err
	}

	s.audit.Append(fmt.Sprintf("Internal Transfer: %v %s to %s (Rate: %v). Created 2 transactions.",
		req.Amount, req.CreditAccount, req.DebitAccount, req.Rate))
	mutationsTotal.WithLabelValues("internal_transfer").Inc()
	return []models.Transaction{creditLeg, debitLeg}, nil
}

// ApplyPlan applies an advisor plan in two phases over a snapshot and
// commits the result with a single atomic swap. Deferrals overwrite the
// adjusted date of transactions that still exist; the advisor is trusted for
// semantics (no lock or deferral-window re-validation here) but not for
// structure, so entries missing required fields are skipped. New
// transactions are additive and arrive locked.
func (s *plannerService) ApplyPlan(plan dto.AIOptimizationPlan, rates dto.Rates) dto.ApplyPlanResult {
	next := s.store.List()
	byID := make(map[string]int, len(next))
	for i, t := range next {
		byID[t.ID] = i
	}

	deferrals := 0
	for _, adj := range plan.Adjustments {
		if adj.TransactionID == "" || adj.SuggestedDate == "" {
			continue
		}
		idx, ok := byID[adj.TransactionID]
		if !ok {
			continue
		}
		next[idx].AdjustedDate = adj.SuggestedDate
		deferrals++
	}

	created := 0
	for _, tx := range plan.NewTransactions {
		if tx.Date == "" || tx.Amount <= 0 {
			continue
		}

		switch tx.Kind {
		case dto.PlanKindTransfer:
			if tx.SourceAccount == "" || tx.TargetAccount == "" {
				continue
			}
			targetAmount := Convert(tx.Amount, models.Currency(tx.Currency), models.Currency(tx.TargetAccount), rates)

			next = append(next, models.Transaction{
				ID:           s.newID(),
				OriginalDate: tx.Date,
				AdjustedDate: tx.Date,
				Partner:      fmt.Sprintf("Transfer to %s", tx.TargetAccount),
				InvoiceNo:    invoiceAITransferOut,
				Type:         models.TypePayable,
				Amount:       tx.Amount,
				Currency:     models.Currency(tx.SourceAccount),
				PaymentType:  models.PaymentTransfer,
				IsLocked:     true,
			}, models.Transaction{
				ID:           s.newID(),
				OriginalDate: tx.Date,
				AdjustedDate: tx.Date,
				Partner:      fmt.Sprintf("Transfer from %s", tx.SourceAccount),
				InvoiceNo:    invoiceAITransferIn,
				Type:         models.TypeReceivable,
				Amount:       targetAmount,
				Currency:     models.Currency(tx.TargetAccount),
				PaymentType:  models.PaymentTransfer,
				IsLocked:     true,
			})
			created += 2
			s.audit.Append(fmt.Sprintf("AI Transfer: %v %s -> %v %s",
				tx.Amount, tx.SourceAccount, targetAmount, tx.TargetAccount))

		case dto.PlanKindInjection:
			if tx.SourceAccount == "" || tx.Currency == "" {
				continue
			}
			next = append(next, models.Transaction{
				ID:           s.newID(),
				OriginalDate: tx.Date,
				AdjustedDate: tx.Date,
				Partner:      tx.SourceAccount,
				InvoiceNo:    invoiceAIInjection,
				Type:         models.TypeReceivable,
				Amount:       tx.Amount,
				Currency:     models.Currency(tx.Currency),
				PaymentType:  models.PaymentTransfer,
				IsLocked:     true,
			})
			created++
			s.audit.Append(fmt.Sprintf("AI Injection: %v %s from %s",
				tx.Amount, tx.Currency, tx.SourceAccount))
		}
	}

	s.store.ReplaceAll(next)
	s.audit.Append(fmt.Sprintf("Applied AI Optimization Plan: %d deferrals, %d new transactions.",
		deferrals, created))
	mutationsTotal.WithLabelValues("apply_plan").Inc()
	return dto.ApplyPlanResult{Deferrals: deferrals, Created: created}
}

// daysBetween is the ceiling day difference between two ISO dates.
func daysBetween(from, to string) int {
	d1, err1 := time.Parse(isoDate, from)
	d2, err2 := time.Parse(isoDate, to)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(math.Ceil(d2.Sub(d1).Hours() / 24))
}
