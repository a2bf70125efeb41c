package services

import (
	"time"

	"github.com/depack/cashflow-backend/internal/codec"
	"github.com/depack/cashflow-backend/internal/dto"
	"github.com/depack/cashflow-backend/internal/models"
)

// DefaultHorizonDays is the planning window; a projection covers day 0
// through day 90 inclusive, 91 rows.
const DefaultHorizonDays = 90

const isoDate = "2006-01-02"

// Project derives the daily ledger for one account over the horizon. It is a
// pure function of its inputs: transactions are matched by exact calendar
// day on their adjusted date, credits sum receivables, debits sum payables,
// and the running balance is seeded from the opening balance. Transactions
// maturing outside the window are invisible to the projection.
func Project(txs []models.Transaction, opening models.AccountBalances, currency models.Currency, horizonDays int, startDate time.Time) []models.LedgerRow {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	start := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC)

	rows := make([]models.LedgerRow, 0, horizonDays+1)
	balance := opening[currency]

	for day := 0; day <= horizonDays; day++ {
		date := start.AddDate(0, 0, day).Format(isoDate)

		var credit, debit float64
		for _, t := range txs {
			if t.Currency != currency || t.AdjustedDate != date {
				continue
			}
			switch t.Type {
			case models.TypeReceivable:
				credit += t.Amount
			case models.TypePayable:
				debit += t.Amount
			}
		}

		net := credit - debit
		balance += net
		rows = append(rows, models.LedgerRow{
			Date:    date,
			Credit:  credit,
			Debit:   debit,
			Net:     net,
			Balance: balance,
		})
	}
	return rows
}

type ledgerStore interface {
	List() []models.Transaction
	Balances() models.AccountBalances
}

type ledgerService struct {
	store    ledgerStore
	clockNow func() time.Time
}

func NewLedgerService(store ledgerStore) *ledgerService {
	return &ledgerService{store: store, clockNow: time.Now}
}

// ProjectCurrency projects the current store contents for one account.
// A zero startDate means "today".
func (s *ledgerService) ProjectCurrency(currency models.Currency, horizonDays int, startDate time.Time) dto.LedgerResponse {
	if startDate.IsZero() {
		startDate = s.clockNow()
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	rows := Project(s.store.List(), s.store.Balances(), currency, horizonDays, startDate)

	return dto.LedgerResponse{
		Currency: currency,
		Start:    rows[0].Date,
		Days:     horizonDays,
		Rows:     rows,
	}
}

// Export renders the current transaction set in the 8-column exchange format.
func (s *ledgerService) Export() string {
	return codec.Export(s.store.List())
}
