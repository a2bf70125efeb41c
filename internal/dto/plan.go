package dto

import "github.com/depack/cashflow-backend/internal/models"

const (
	PlanKindTransfer  = "TRANSFER"
	PlanKindInjection = "INJECTION"
)

// AIAdjustment defers one existing transaction to a suggested date.
type AIAdjustment struct {
	TransactionID string `json:"transactionId"`
	SuggestedDate string `json:"suggestedDate"` // YYYY-MM-DD
	Reason        string `json:"reason"`
}

// AINewTransaction proposes an internal transfer between accounts or an
// injection from a virtual funding source. Amount is denominated in the
// source account's currency.
type AINewTransaction struct {
	Kind          string  `json:"type"`
	SourceAccount string  `json:"sourceAccount"`
	TargetAccount string  `json:"targetAccount"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Date          string  `json:"date"` // YYYY-MM-DD
	Reason        string  `json:"reason"`
}

// AIOptimizationPlan is the advisor's transient proposal. It exists only
// between computation and user-confirmed application.
type AIOptimizationPlan struct {
	Adjustments     []AIAdjustment     `json:"adjustments"`
	NewTransactions []AINewTransaction `json:"newTransactions"`
	Summary         string             `json:"summary"`
}

// AdvisorTransaction is the reduced transaction view sent to the advisor.
type AdvisorTransaction struct {
	ID           string                 `json:"id"`
	Date         string                 `json:"date"`
	OriginalDate string                 `json:"originalDate"`
	Type         models.TransactionType `json:"type"`
	Amount       float64                `json:"amount"`
	Currency     models.Currency        `json:"currency"`
	Partner      string                 `json:"partner"`
	IsLocked     bool                   `json:"isLocked"`
}

type OptimizeRequest struct {
	MaxDeferralDays int   `json:"maxDeferralDays"`
	Rates           Rates `json:"rates"`
}

type ApplyPlanRequest struct {
	Plan  AIOptimizationPlan `json:"plan"`
	Rates Rates              `json:"rates"`
}

type ApplyPlanResult struct {
	Deferrals int `json:"deferrals"`
	Created   int `json:"created"`
}
