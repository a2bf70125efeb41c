package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/depack/cashflow-backend/internal/dto"
	"github.com/depack/cashflow-backend/internal/errs"
	"github.com/depack/cashflow-backend/internal/models"
	"github.com/depack/cashflow-backend/pkg/logger"
)

type vertexClient interface {
	GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error)
}

type advisorStore interface {
	List() []models.Transaction
	Balances() models.AccountBalances
}

// advisorService delegates schedule optimization to the external model and
// validates what comes back. The advisor's reasoning is a black box; this
// layer owns prompt assembly, the response schema, and decode/shape checks.
type advisorService struct {
	vertex          vertexClient
	store           advisorStore
	maxDeferralDays int
	clockNow        func() time.Time
}

func NewAdvisorService(vertex vertexClient, store advisorStore, maxDeferralDays int) *advisorService {
	return &advisorService{
		vertex:          vertex,
		store:           store,
		maxDeferralDays: maxDeferralDays,
		clockNow:        time.Now,
	}
}

// Optimize sends a reduced snapshot of the current schedule to the advisor
// and returns its proposed plan. The store is never touched here; the plan
// is transient until the user confirms application. Any failure comes back
// as an AdvisorError and leaves the caller in its pre-request state.
func (s *advisorService) Optimize(ctx context.Context, maxDeferralDays int, rates dto.Rates) (dto.AIOptimizationPlan, error) {
	log := logger.FromContext(ctx)
	if s.vertex == nil {
		return dto.AIOptimizationPlan{}, errs.NewAdvisorError("optimization advisor is not configured", false)
	}
	if maxDeferralDays <= 0 {
		maxDeferralDays = s.maxDeferralDays
	}

	snapshot := s.snapshot()
	txJSON, err := json.Marshal(snapshot)
	if err != nil {
		return dto.AIOptimizationPlan{}, errs.NewAdvisorError(fmt.Sprintf("failed to encode snapshot: %v", err), false)
	}
	balancesJSON, err := json.Marshal(s.store.Balances())
	if err != nil {
		return dto.AIOptimizationPlan{}, errs.NewAdvisorError(fmt.Sprintf("failed to encode balances: %v", err), false)
	}

	resp, err := s.vertex.GenerateContent(ctx, dto.VertexGenerateRequest{
		System:           optimizeSystemPrompt(maxDeferralDays, rates),
		UserMessage:      optimizeUserMessage(balancesJSON, txJSON),
		ResponseMIMEType: "application/json",
		ResponseSchema:   planSchema(),
	})
	if err != nil {
		return dto.AIOptimizationPlan{}, errs.NewAdvisorError(fmt.Sprintf("advisor call failed: %v", err), true)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return dto.AIOptimizationPlan{}, errs.NewAdvisorError("advisor returned an empty response", false)
	}

	var plan dto.AIOptimizationPlan
	if err := json.Unmarshal([]byte(resp.Text), &plan); err != nil {
		return dto.AIOptimizationPlan{}, errs.NewAdvisorError(fmt.Sprintf("advisor returned malformed plan: %v", err), false)
	}
	if plan.Adjustments == nil {
		plan.Adjustments = []dto.AIAdjustment{}
	}
	if plan.NewTransactions == nil {
		plan.NewTransactions = []dto.AINewTransaction{}
	}

	log.Info("optimization plan computed",
		"adjustments", len(plan.Adjustments),
		"new_transactions", len(plan.NewTransactions))
	return plan, nil
}

// Analyze asks the advisor for a short liquidity assessment of a projected
// ledger. Weekly snapshots keep the payload small.
func (s *advisorService) Analyze(ctx context.Context, rows []models.LedgerRow, currency models.Currency) (string, error) {
	if s.vertex == nil {
		return "", errs.NewAdvisorError("optimization advisor is not configured", false)
	}

	var summary strings.Builder
	for i, row := range rows {
		if i%7 != 0 {
			continue
		}
		fmt.Fprintf(&summary, "%s: Balance %.0f\n", row.Date, row.Balance)
	}

	prompt := fmt.Sprintf(
		"Analyze the following projected cash flow for the %s account over the next %d days.\n\n"+
			"Data points (weekly snapshots):\n%s\n"+
			"Provide a concise assessment (max 3 sentences) of the liquidity health. "+
			"Point out any critical periods where the balance dips negative or dangerously low. "+
			"Suggest one actionable strategy if there is a risk.",
		currency, DefaultHorizonDays, summary.String())

	resp, err := s.vertex.GenerateContent(ctx, dto.VertexGenerateRequest{
		System:      "You are a senior financial analyst for a cash-flow planning dashboard.",
		UserMessage: prompt,
	})
	if err != nil {
		return "", errs.NewAdvisorError(fmt.Sprintf("advisor call failed: %v", err), true)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", errs.NewAdvisorError("advisor returned an empty response", false)
	}
	return resp.Text, nil
}

// snapshot reduces each transaction to the fields the advisor needs.
func (s *advisorService) snapshot() []dto.AdvisorTransaction {
	txs := s.store.List()
	out := make([]dto.AdvisorTransaction, 0, len(txs))
	for _, t := range txs {
		out = append(out, dto.AdvisorTransaction{
			ID:           t.ID,
			Date:         t.AdjustedDate,
			OriginalDate: t.OriginalDate,
			Type:         t.Type,
			Amount:       t.Amount,
			Currency:     t.Currency,
			Partner:      t.Partner,
			IsLocked:     t.IsLocked,
		})
	}
	return out
}

func optimizeSystemPrompt(maxDeferralDays int, rates dto.Rates) string {
	return fmt.Sprintf(
		"You are a cash flow optimization advisor.\n"+
			"OBJECTIVE: Minimize negative cash balances across all accounts (EGP, USD, EUR) over the next %d days.\n\n"+
			"CONTEXT:\nExchange Rates:\n1 EUR = %v USD\n1 USD = %v EGP\n\n"+
			"CONSTRAINTS:\n"+
			"1. You can defer 'Payable' transactions that are NOT locked.\n"+
			"2. You cannot move a date earlier than its 'originalDate'.\n"+
			"3. You cannot defer a payment more than %d days past its 'originalDate'.\n"+
			"4. Suggest internal transfers between EGP, USD, EUR to cover deficits. When suggesting a transfer, "+
			"use the provided exchange rates to estimate the amount needed in the source currency to cover the "+
			"deficit in the target currency.\n"+
			"5. If deficits persist, suggest injections from 'Bank Debt' or 'SH Account'.\n\n"+
			"Respond with a JSON plan containing specific date adjustments and new transfer transactions.",
		DefaultHorizonDays, rates.EurUsd, rates.UsdEgp, maxDeferralDays)
}

func optimizeUserMessage(balancesJSON, txJSON []byte) string {
	return fmt.Sprintf("CURRENT STATE:\nOpening Balances: %s\nTransactions: %s", balancesJSON, txJSON)
}

func planSchema() *dto.VertexSchema {
	return &dto.VertexSchema{
		Type: "object",
		Properties: map[string]*dto.VertexSchema{
			"adjustments": {
				Type: "array",
				Items: &dto.VertexSchema{
					Type: "object",
					Properties: map[string]*dto.VertexSchema{
						"transactionId": {Type: "string"},
						"suggestedDate": {Type: "string", Description: "YYYY-MM-DD"},
						"reason":        {Type: "string"},
					},
					Required: []string{"transactionId", "suggestedDate", "reason"},
				},
			},
			"newTransactions": {
				Type: "array",
				Items: &dto.VertexSchema{
					Type: "object",
					Properties: map[string]*dto.VertexSchema{
						"type":          {Type: "string", Enum: []string{dto.PlanKindTransfer, dto.PlanKindInjection}},
						"sourceAccount": {Type: "string"},
						"targetAccount": {Type: "string"},
						"amount":        {Type: "number", Description: "Amount in the currency of the source account"},
						"currency":      {Type: "string"},
						"date":          {Type: "string", Description: "YYYY-MM-DD"},
						"reason":        {Type: "string"},
					},
					Required: []string{"type", "sourceAccount", "targetAccount", "amount", "currency", "date"},
				},
			},
			"summary": {Type: "string"},
		},
		Required: []string{"adjustments", "newTransactions", "summary"},
	}
}
