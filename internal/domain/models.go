// Package domain holds the core entities of the advisor service.
// The domain layer is pure: no transport, storage, or wire-format
// concerns leak into these types.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskTolerance describes how much volatility a household accepts.
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "Conservative"
	RiskModerate     RiskTolerance = "Moderate"
	RiskAggressive   RiskTolerance = "Aggressive"
)

// RiskTolerances lists every accepted risk tolerance value.
var RiskTolerances = []RiskTolerance{RiskConservative, RiskModerate, RiskAggressive}

// Valid reports whether the value is one of the known tolerance levels.
func (r RiskTolerance) Valid() bool {
	for _, v := range RiskTolerances {
		if r == v {
			return true
		}
	}
	return false
}

// InvestmentType classifies a held investment.
type InvestmentType string

const (
	InvestmentStocks            InvestmentType = "Stocks"
	InvestmentBonds             InvestmentType = "Bonds"
	InvestmentMutualFunds       InvestmentType = "MutualFunds"
	InvestmentRealEstate        InvestmentType = "RealEstate"
	InvestmentCryptocurrency    InvestmentType = "Cryptocurrency"
	InvestmentBankDeposits      InvestmentType = "BankDeposits"
	InvestmentRecurringDeposits InvestmentType = "RecurringDeposits"
	InvestmentOther             InvestmentType = "Other"
)

// GoalPriority ranks a financial goal.
type GoalPriority string

const (
	PriorityLow     GoalPriority = "Low"
	PriorityMedium  GoalPriority = "Medium"
	PriorityHigh    GoalPriority = "High"
	PriorityUnknown GoalPriority = "Unknown"
)

// GoalStatus tracks progress on a financial goal.
type GoalStatus string

const (
	StatusNotStarted GoalStatus = "NotStarted"
	StatusInProgress GoalStatus = "InProgress"
	StatusCompleted  GoalStatus = "Completed"
	StatusUnknown    GoalStatus = "Unknown"
)

// AdviceCategory classifies a piece of generated advice.
//
// The backend's vocabulary can evolve ahead of this client, so the set
// is closed plus CategoryUnknown: unrecognized values decode to the
// fallback instead of failing.
type AdviceCategory string

const (
	CategorySavings            AdviceCategory = "Savings"
	CategoryInvestment         AdviceCategory = "Investment"
	CategoryBudgeting          AdviceCategory = "Budgeting"
	CategoryDebtManagement     AdviceCategory = "DebtManagement"
	CategoryRetirementPlanning AdviceCategory = "RetirementPlanning"
	CategoryTaxOptimization    AdviceCategory = "TaxOptimization"
	CategoryUnknown            AdviceCategory = "Unknown"
)

// Investment is a single holding owned by a FinancialProfile.
type Investment struct {
	ID           string          `json:"Id"`
	Name         string          `json:"Name"`
	Type         InvestmentType  `json:"Type"`
	Amount       decimal.Decimal `json:"Amount"`
	PurchaseDate *time.Time      `json:"PurchaseDate,omitempty"`
	CurrentValue decimal.Decimal `json:"CurrentValue"`
}

// FinancialGoal is a target owned by a FinancialProfile.
type FinancialGoal struct {
	ID           string          `json:"Id"`
	Name         string          `json:"Name"`
	Description  string          `json:"Description"`
	TargetAmount decimal.Decimal `json:"TargetAmount"`
	TargetDate   *time.Time      `json:"TargetDate,omitempty"`
	Priority     GoalPriority    `json:"Priority"`
	Status       GoalStatus      `json:"Status"`
}

// FinancialProfile is a household's self-reported financial picture.
// It exclusively owns its investments and goals.
//
// Invariants: Age is in [18,100], RiskTolerance is one of the three
// known levels, and monetary fields are non-negative. The validator
// enforces these before any advisory call is attempted.
type FinancialProfile struct {
	ID                 string          `json:"Id"`
	Name               string          `json:"Name"`
	Email              string          `json:"Email"`
	Age                int             `json:"Age"`
	MonthlyIncome      decimal.Decimal `json:"MonthlyIncome"`
	MonthlySavings     decimal.Decimal `json:"MonthlySavings"`
	RiskTolerance      RiskTolerance   `json:"RiskTolerance"`
	CurrentInvestments []Investment    `json:"CurrentInvestments"`
	FinancialGoals     []FinancialGoal `json:"FinancialGoals"`
}

// FinancialAdvice is the structured result returned by the advisory
// backend, projected into the internal model. It is a value object:
// constructed once per gateway call, never mutated.
type FinancialAdvice struct {
	ID              string           `json:"Id"`
	Title           string           `json:"Title"`
	Description     string           `json:"Description"`
	Category        AdviceCategory   `json:"Category"`
	ProjectedImpact *decimal.Decimal `json:"ProjectedImpact,omitempty"`
	ActionItems     []string         `json:"ActionItems"`
	GeneratedDate   time.Time        `json:"GeneratedDate"`
}
