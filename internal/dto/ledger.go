package dto

import "github.com/depack/cashflow-backend/internal/models"

type LedgerResponse struct {
	Currency models.Currency    `json:"currency"`
	Start    string             `json:"start"` // YYYY-MM-DD
	Days     int                `json:"days"`
	Rows     []models.LedgerRow `json:"rows"`
}

type AnalysisResponse struct {
	Currency models.Currency `json:"currency"`
	Analysis string          `json:"analysis"`
}

// Rates are the two USD-bridge exchange rates: 1 EUR = EurUsd USD and
// 1 USD = UsdEgp EGP.
type Rates struct {
	EurUsd float64 `json:"eurUsd"`
	UsdEgp float64 `json:"usdEgp"`
}
