package advisory

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/wealthwise/advisor/internal/domain"
)

// Age bounds accepted for a profile.
const (
	MinAge = 18
	MaxAge = 100
)

// ValidateProfile checks the structural and domain constraints on a
// profile before any network call is attempted. It is a pure function:
// no side effects, no I/O.
//
// Checks run in a fixed order (name, email, age, risk tolerance,
// monetary signs) and every violated field is collected into a single
// KindValidation error, so the caller gets one complete report instead
// of fixing fields one at a time.
func ValidateProfile(p domain.FinancialProfile) error {
	var fields []string
	var reasons []string

	if strings.TrimSpace(p.Name) == "" {
		fields = append(fields, "name")
		reasons = append(reasons, "name must not be empty")
	}

	if !validEmail(p.Email) {
		fields = append(fields, "email")
		reasons = append(reasons, fmt.Sprintf("email %q is not a valid address", p.Email))
	}

	if p.Age < MinAge || p.Age > MaxAge {
		fields = append(fields, "age")
		reasons = append(reasons, fmt.Sprintf("age %d is outside [%d, %d]", p.Age, MinAge, MaxAge))
	}

	if !p.RiskTolerance.Valid() {
		fields = append(fields, "risk_tolerance")
		reasons = append(reasons, fmt.Sprintf("risk tolerance %q is not one of Conservative, Moderate, Aggressive", p.RiskTolerance))
	}

	if p.MonthlyIncome.IsNegative() {
		fields = append(fields, "monthly_income")
		reasons = append(reasons, "monthly income must not be negative")
	}

	if p.MonthlySavings.IsNegative() {
		fields = append(fields, "monthly_savings")
		reasons = append(reasons, "monthly savings must not be negative")
	}

	for i, inv := range p.CurrentInvestments {
		if inv.Amount.IsNegative() || inv.CurrentValue.IsNegative() {
			fields = append(fields, fmt.Sprintf("current_investments[%d]", i))
			reasons = append(reasons, fmt.Sprintf("investment %q has a negative amount or value", inv.Name))
		}
	}

	for i, goal := range p.FinancialGoals {
		if goal.TargetAmount.IsNegative() {
			fields = append(fields, fmt.Sprintf("financial_goals[%d]", i))
			reasons = append(reasons, fmt.Sprintf("goal %q has a negative target amount", goal.Name))
		}
	}

	if len(fields) > 0 {
		return &Error{
			Kind:   KindValidation,
			Fields: fields,
			Err:    fmt.Errorf("%s", strings.Join(reasons, "; ")),
		}
	}

	return nil
}

func validEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	// Reject "Name <a@b>" forms: a profile email is a bare address.
	return err == nil && addr.Address == email
}
