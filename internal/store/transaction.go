package store

import (
	"fmt"
	"sync"

	"github.com/depack/cashflow-backend/internal/errs"
	"github.com/depack/cashflow-backend/internal/models"
)

// TransactionPatch carries the mutable fields of an update. Nil fields are
// left untouched. Lock policy on AdjustedDate is enforced one layer up, in
// the planner; the store itself is permissive.
type TransactionPatch struct {
	Partner      *string                 `json:"partner,omitempty"`
	InvoiceNo    *string                 `json:"invoiceNo,omitempty"`
	Type         *models.TransactionType `json:"type,omitempty"`
	Amount       *float64                `json:"amount,omitempty"`
	Currency     *models.Currency        `json:"currency,omitempty"`
	PaymentType  *string                 `json:"paymentType,omitempty"`
	AdjustedDate *string                 `json:"adjustedDate,omitempty"`
	IsLocked     *bool                   `json:"isLocked,omitempty"`
}

// transactionStore holds the authoritative transaction set and opening
// balances for the session. State lives in memory only and is lost on
// process end. A single mutex keeps the "one mutation at a time" discipline
// under concurrent HTTP requests.
type transactionStore struct {
	mu       sync.RWMutex
	txs      map[string]models.Transaction
	order    []string
	balances models.AccountBalances
}

func NewTransactionStore() *transactionStore {
	return &transactionStore{
		txs:      make(map[string]models.Transaction),
		balances: models.ZeroBalances(),
	}
}

func validate(t models.Transaction) error {
	if t.Amount < 0 {
		return errs.NewValidationError(fmt.Sprintf("amount must not be negative: %v", t.Amount))
	}
	if !models.IsValidCurrency(t.Currency) {
		return errs.NewValidationError(fmt.Sprintf("unknown currency: %s", t.Currency))
	}
	if !models.IsValidType(t.Type) {
		return errs.NewValidationError(fmt.Sprintf("unknown transaction type: %s", t.Type))
	}
	return nil
}

func (s *transactionStore) Add(t models.Transaction) error {
	if err := validate(t); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.txs[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}
	s.txs[t.ID] = t
	return nil
}

// Remove deletes the transaction if present. A missing id is a harmless
// no-op, never an error.
func (s *transactionStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txs[id]; !ok {
		return
	}
	delete(s.txs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Update merges patch into the stored record and returns the result. The
// second return is false when the id is absent.
func (s *transactionStore) Update(id string, patch TransactionPatch) (models.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.txs[id]
	if !ok {
		return models.Transaction{}, false
	}
	if patch.Partner != nil {
		t.Partner = *patch.Partner
	}
	if patch.InvoiceNo != nil {
		t.InvoiceNo = *patch.InvoiceNo
	}
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Currency != nil {
		t.Currency = *patch.Currency
	}
	if patch.PaymentType != nil {
		t.PaymentType = *patch.PaymentType
	}
	if patch.AdjustedDate != nil {
		t.AdjustedDate = *patch.AdjustedDate
	}
	if patch.IsLocked != nil {
		t.IsLocked = *patch.IsLocked
	}
	s.txs[id] = t
	return t, true
}

// ReplaceAll swaps the entire transaction set in one step. Import, split and
// plan application compute the full new set first, so the store either holds
// the old set or the new one, never a mix.
func (s *transactionStore) ReplaceAll(list []models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txs = make(map[string]models.Transaction, len(list))
	s.order = make([]string, 0, len(list))
	for _, t := range list {
		if _, exists := s.txs[t.ID]; !exists {
			s.order = append(s.order, t.ID)
		}
		s.txs[t.ID] = t
	}
}

func (s *transactionStore) Get(id string) (models.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.txs[id]
	return t, ok
}

// List returns the transactions in insertion order.
func (s *transactionStore) List() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Transaction, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.txs[id])
	}
	return out
}

func (s *transactionStore) Balances() models.AccountBalances {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(models.AccountBalances, len(s.balances))
	for c, v := range s.balances {
		out[c] = v
	}
	return out
}

func (s *transactionStore) SetBalances(b models.AccountBalances) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances = models.ZeroBalances()
	for c, v := range b {
		s.balances[c] = v
	}
}
