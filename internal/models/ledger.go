package models

// LedgerRow is one day's aggregated cash movement and running balance for one
// account. Rows are derived on every read and never stored.
type LedgerRow struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Credit  float64 `json:"credit"`
	Debit   float64 `json:"debit"`
	Net     float64 `json:"net"`
	Balance float64 `json:"balance"`
}
