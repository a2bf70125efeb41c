package services

import (
	"math"

	"github.com/depack/cashflow-backend/internal/dto"
	"github.com/depack/cashflow-backend/internal/models"
)

// Convert moves an amount between accounts through the USD bridge: source to
// USD, then USD to target. Rounding to 2 decimals (half away from zero)
// happens once, after the full bridge computation. Converting the same
// currency to itself is the identity. The virtual funding accounts are not
// convertible; for them the bridge degrades the way callers expect (an
// unknown target leaves the amount untouched, an unknown source contributes
// nothing to the bridge), and the plan-application path never routes them
// through here with a real counterpart.
func Convert(amount float64, from, to models.Currency, rates dto.Rates) float64 {
	target := amount

	var usd float64
	switch from {
	case models.CurrencyUSD:
		usd = amount
	case models.CurrencyEUR:
		usd = amount * rates.EurUsd
	case models.CurrencyEGP:
		usd = amount / rates.UsdEgp
	}

	switch to {
	case models.CurrencyUSD:
		target = usd
	case models.CurrencyEUR:
		target = usd / rates.EurUsd
	case models.CurrencyEGP:
		target = usd * rates.UsdEgp
	}

	return math.Round(target*100) / 100
}
