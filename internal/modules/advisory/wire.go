package advisory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/wealthwise/advisor/internal/domain"
)

// RequestOptions carries the caller-supplied fields the advisory
// backend accepts beyond the stored profile (debt figures, horizons,
// preference flags). All fields are optional; absence never fails
// validation and absent fields are omitted from the wire payload.
type RequestOptions struct {
	EmploymentStatus     string
	TotalDebt            *decimal.Decimal
	MonthlyDebtPayments  *decimal.Decimal
	InvestmentExperience *int
	ShortTermHorizon     *int
	MediumTermHorizon    *int
	LongTermHorizon      *int
	HasEmergencyFund     *bool
	ESGPreference        *bool
	CryptoTolerance      *bool
}

// RequestWire mirrors the advisory backend's request schema. The
// backend speaks snake_case JSON field names with JSON numbers for
// money; its enum vocabulary matches the internal PascalCase values
// exactly ("Moderate", "MutualFunds", "SelfEmployed"), so enum values
// pass through unchanged. Conversion from the internal model happens
// here and nowhere else.
type RequestWire struct {
	UserID             string           `json:"user_id"`
	Name               string           `json:"name"`
	Email              string           `json:"email"`
	Age                int              `json:"age"`
	MonthlyIncome      float64          `json:"monthly_income"`
	MonthlySavings     float64          `json:"monthly_savings"`
	RiskTolerance      string           `json:"risk_tolerance"`
	CurrentInvestments []investmentWire `json:"current_investments"`
	FinancialGoals     []goalWire       `json:"financial_goals"`

	// Backend-only optional fields. The external contract tolerates
	// their absence, so they are pointers with omitempty.
	EmploymentStatus     *string  `json:"employment_status,omitempty"`
	TotalDebt            *float64 `json:"total_debt,omitempty"`
	MonthlyDebtPayments  *float64 `json:"monthly_debt_payments,omitempty"`
	InvestmentExperience *int     `json:"investment_experience,omitempty"`
	ShortTermHorizon     *int     `json:"short_term_horizon,omitempty"`
	MediumTermHorizon    *int     `json:"medium_term_horizon,omitempty"`
	LongTermHorizon      *int     `json:"long_term_horizon,omitempty"`
	HasEmergencyFund     *bool    `json:"has_emergency_fund,omitempty"`
	ESGPreference        *bool    `json:"esg_preference,omitempty"`
	CryptoTolerance      *bool    `json:"crypto_tolerance,omitempty"`
}

type investmentWire struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Amount       float64 `json:"amount"`
	PurchaseDate *string `json:"purchase_date,omitempty"`
	CurrentValue float64 `json:"current_value"`
}

type goalWire struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	TargetAmount float64 `json:"target_amount"`
	TargetDate   *string `json:"target_date,omitempty"`
	Priority     string  `json:"priority"`
	Status       string  `json:"status"`
}

// adviceWire mirrors the backend's FinancialAdvice response schema.
type adviceWire struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	ProjectedImpact *float64 `json:"projected_impact"`
	ActionItems     []string `json:"action_items"`
	GeneratedDate   string   `json:"generated_date"`
}

// Mapper translates between the internal entity model and the wire
// schema. It is stateless with respect to request data; the logger is
// only used to surface forward-compatibility warnings.
type Mapper struct {
	log zerolog.Logger
}

// NewMapper creates a wire mapper.
func NewMapper(log zerolog.Logger) *Mapper {
	return &Mapper{log: log.With().Str("component", "wire_mapper").Logger()}
}

// ToWireRequest projects a validated profile plus caller options into
// the backend's request schema.
func (m *Mapper) ToWireRequest(p domain.FinancialProfile, opts RequestOptions) RequestWire {
	req := RequestWire{
		UserID:             p.ID,
		Name:               p.Name,
		Email:              p.Email,
		Age:                p.Age,
		MonthlyIncome:      p.MonthlyIncome.InexactFloat64(),
		MonthlySavings:     p.MonthlySavings.InexactFloat64(),
		RiskTolerance:      string(p.RiskTolerance),
		CurrentInvestments: make([]investmentWire, 0, len(p.CurrentInvestments)),
		FinancialGoals:     make([]goalWire, 0, len(p.FinancialGoals)),
	}

	for _, inv := range p.CurrentInvestments {
		req.CurrentInvestments = append(req.CurrentInvestments, investmentWire{
			Name:         inv.Name,
			Type:         string(inv.Type),
			Amount:       inv.Amount.InexactFloat64(),
			PurchaseDate: wireDate(inv.PurchaseDate),
			CurrentValue: inv.CurrentValue.InexactFloat64(),
		})
	}

	for _, goal := range p.FinancialGoals {
		req.FinancialGoals = append(req.FinancialGoals, goalWire{
			Name:         goal.Name,
			Description:  goal.Description,
			TargetAmount: goal.TargetAmount.InexactFloat64(),
			TargetDate:   wireDate(goal.TargetDate),
			Priority:     string(goal.Priority),
			Status:       string(goal.Status),
		})
	}

	if opts.EmploymentStatus != "" {
		v := opts.EmploymentStatus
		req.EmploymentStatus = &v
	}
	if opts.TotalDebt != nil {
		v := opts.TotalDebt.InexactFloat64()
		req.TotalDebt = &v
	}
	if opts.MonthlyDebtPayments != nil {
		v := opts.MonthlyDebtPayments.InexactFloat64()
		req.MonthlyDebtPayments = &v
	}
	req.InvestmentExperience = opts.InvestmentExperience
	req.ShortTermHorizon = opts.ShortTermHorizon
	req.MediumTermHorizon = opts.MediumTermHorizon
	req.LongTermHorizon = opts.LongTermHorizon
	req.HasEmergencyFund = opts.HasEmergencyFund
	req.ESGPreference = opts.ESGPreference
	req.CryptoTolerance = opts.CryptoTolerance

	return req
}

// FromWireResponse decodes a 2xx response body into the internal
// advice entity. Structurally invalid JSON fails with
// KindMalformedResponse; unknown category vocabulary does not fail,
// it maps to CategoryUnknown and logs a warning so the gateway stays
// available when the backend evolves ahead of this client. Omitted
// fields get safe defaults (empty string, empty slice, gateway clock)
// rather than propagating nulls.
func (m *Mapper) FromWireResponse(raw []byte) (domain.FinancialAdvice, error) {
	var wire adviceWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return domain.FinancialAdvice{}, &Error{
			Kind: KindMalformedResponse,
			Err:  fmt.Errorf("decoding advice body: %w", err),
		}
	}

	advice := domain.FinancialAdvice{
		ID:          wire.ID,
		Title:       wire.Title,
		Description: wire.Description,
		Category:    m.categoryFromWire(wire.Category),
		ActionItems: wire.ActionItems,
	}

	if advice.ID == "" {
		advice.ID = uuid.New().String()
	}
	if advice.ActionItems == nil {
		advice.ActionItems = []string{}
	}
	if wire.ProjectedImpact != nil {
		impact := decimal.NewFromFloat(*wire.ProjectedImpact)
		advice.ProjectedImpact = &impact
	}
	advice.GeneratedDate = m.parseGeneratedDate(wire.GeneratedDate)

	return advice, nil
}

// categoryFromWire resolves a backend category string against the
// closed category set, case- and underscore-insensitively.
func (m *Mapper) categoryFromWire(raw string) domain.AdviceCategory {
	if raw == "" {
		return domain.CategoryUnknown
	}

	known := []domain.AdviceCategory{
		domain.CategorySavings,
		domain.CategoryInvestment,
		domain.CategoryBudgeting,
		domain.CategoryDebtManagement,
		domain.CategoryRetirementPlanning,
		domain.CategoryTaxOptimization,
	}
	canon := canonicalEnum(raw)
	for _, c := range known {
		if canon == canonicalEnum(string(c)) {
			return c
		}
	}

	m.log.Warn().
		Str("category", raw).
		Msg("Backend returned unrecognized advice category, using fallback")
	return domain.CategoryUnknown
}

// parseGeneratedDate accepts RFC3339 and the zone-less ISO form the
// backend emits for naive UTC timestamps. An unparseable value falls
// back to the gateway's own clock.
func (m *Mapper) parseGeneratedDate(raw string) time.Time {
	if raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
			return t.UTC()
		}
		m.log.Warn().
			Str("generated_date", raw).
			Msg("Backend returned unparseable generation timestamp")
	}
	return time.Now().UTC()
}

// canonicalEnum strips separators and lowercases so that
// "DebtManagement", "debt_management", and "debtmanagement" compare
// equal.
func canonicalEnum(v string) string {
	v = strings.ToLower(v)
	v = strings.ReplaceAll(v, "_", "")
	v = strings.ReplaceAll(v, "-", "")
	v = strings.ReplaceAll(v, " ", "")
	return v
}

func wireDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
