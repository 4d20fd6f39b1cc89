package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealthwise/advisor/internal/domain"
)

// NewProfileFixture returns a valid financial profile for use in tests
func NewProfileFixture() domain.FinancialProfile {
	purchased := time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC)
	target := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	return domain.FinancialProfile{
		ID:             "a4f6c3d0-9d2e-4d7b-8a6e-1f2b3c4d5e6f",
		Name:           "Ada",
		Email:          "ada@x.com",
		Age:            30,
		MonthlyIncome:  decimal.RequireFromString("5200.00"),
		MonthlySavings: decimal.RequireFromString("850.50"),
		RiskTolerance:  domain.RiskModerate,
		CurrentInvestments: []domain.Investment{
			{
				ID:           "0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0",
				Name:         "Global index fund",
				Type:         domain.InvestmentMutualFunds,
				Amount:       decimal.RequireFromString("12000.00"),
				PurchaseDate: &purchased,
				CurrentValue: decimal.RequireFromString("13450.75"),
			},
		},
		FinancialGoals: []domain.FinancialGoal{
			{
				ID:           "9e8d7c6b-5a49-3827-1605-f4e3d2c1b0a9",
				Name:         "House deposit",
				Description:  "Save a deposit for a first home",
				TargetAmount: decimal.RequireFromString("60000.00"),
				TargetDate:   &target,
				Priority:     domain.PriorityHigh,
				Status:       domain.StatusInProgress,
			},
		},
	}
}

// NewAdviceFixture returns a populated advice value for use in tests
func NewAdviceFixture() domain.FinancialAdvice {
	impact := decimal.RequireFromString("15000")
	return domain.FinancialAdvice{
		ID:              "123e4567-e89b-12d3-a456-426614174000",
		Title:           "Build an emergency fund",
		Description:     "Set aside liquid savings before expanding investments",
		Category:        domain.CategorySavings,
		ProjectedImpact: &impact,
		ActionItems:     []string{"Save 3 months expenses"},
		GeneratedDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// AdviceWireJSON is a backend response body matching NewAdviceFixture.
const AdviceWireJSON = `{
	"id": "123e4567-e89b-12d3-a456-426614174000",
	"title": "Build an emergency fund",
	"description": "Set aside liquid savings before expanding investments",
	"category": "Savings",
	"projected_impact": 15000,
	"action_items": ["Save 3 months expenses"],
	"generated_date": "2024-01-01T00:00:00Z"
}`
