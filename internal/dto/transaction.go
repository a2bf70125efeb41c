package dto

import "github.com/depack/cashflow-backend/internal/models"

type ImportRequest struct {
	Content         string                 `json:"content"`
	OpeningBalances models.AccountBalances `json:"openingBalances"`
}

type ImportResult struct {
	Count   int `json:"count"`
	Clamped int `json:"clamped"`
}

type CreateTransactionRequest struct {
	OriginalDate string                 `json:"originalDate"`
	AdjustedDate string                 `json:"adjustedDate"`
	Partner      string                 `json:"partner"`
	InvoiceNo    string                 `json:"invoiceNo"`
	Type         models.TransactionType `json:"type"`
	Amount       float64                `json:"amount"`
	Currency     models.Currency        `json:"currency"`
	PaymentType  string                 `json:"paymentType"`
}

type SplitPart struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

type SplitRequest struct {
	Parts []SplitPart `json:"parts"`
}

type TransferRequest struct {
	CreditAccount models.Currency `json:"creditAccount"`
	DebitAccount  models.Currency `json:"debitAccount"`
	Amount        float64         `json:"amount"`
	Rate          float64         `json:"rate"`
	Date          string          `json:"date"` // YYYY-MM-DD
}
