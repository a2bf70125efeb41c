package models

type Currency string

const (
	CurrencyEGP       Currency = "EGP"
	CurrencyUSD       Currency = "USD"
	CurrencyEUR       Currency = "EUR"
	CurrencyBankDebt  Currency = "Bank Debt"
	CurrencySHAccount Currency = "SH Account"
)

// Currencies lists every account in ledger display order. Bank Debt and
// SH Account are virtual funding sources, not tradable currencies.
var Currencies = []Currency{
	CurrencyEGP,
	CurrencyUSD,
	CurrencyEUR,
	CurrencyBankDebt,
	CurrencySHAccount,
}

func IsValidCurrency(c Currency) bool {
	for _, known := range Currencies {
		if c == known {
			return true
		}
	}
	return false
}

type TransactionType string

const (
	TypePayable    TransactionType = "Payable"
	TypeReceivable TransactionType = "Receivable"
)

func IsValidType(t TransactionType) bool {
	return t == TypePayable || t == TypeReceivable
}

// Payment methods are informational only; free-text methods from manual
// entry are accepted as-is.
const (
	PaymentCheque   = "cheque"
	PaymentTransfer = "transfer"
	PaymentCash     = "cash"
)

// Transaction is a single payable or receivable obligation. OriginalDate is
// the contractual due date and never changes; AdjustedDate is the currently
// planned settlement date.
type Transaction struct {
	ID           string          `json:"id"`
	OriginalDate string          `json:"originalDate"` // YYYY-MM-DD
	AdjustedDate string          `json:"adjustedDate"` // YYYY-MM-DD
	Partner      string          `json:"partner"`
	InvoiceNo    string          `json:"invoiceNo"`
	Type         TransactionType `json:"type"`
	Amount       float64         `json:"amount"`
	Currency     Currency        `json:"currency"`
	PaymentType  string          `json:"paymentType"`
	IsLocked     bool            `json:"isLocked"`
}

// AccountBalances maps each account to its signed opening balance.
type AccountBalances map[Currency]float64

func ZeroBalances() AccountBalances {
	b := make(AccountBalances, len(Currencies))
	for _, c := range Currencies {
		b[c] = 0
	}
	return b
}
