// Package profiles persists financial profiles in the advisor
// database. Owned investments and goals are stored as JSON blobs on
// the profile row - they have no identity outside their profile.
package profiles

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/wealthwise/advisor/internal/domain"
)

// Repository handles profile database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new profile repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "profiles").Logger(),
	}
}

// Create stores a new profile, assigning an ID when the caller did not
// provide one. Returns the stored profile.
func (r *Repository) Create(p domain.FinancialProfile) (domain.FinancialProfile, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	investments, goals, err := marshalOwned(p)
	if err != nil {
		return domain.FinancialProfile{}, err
	}

	_, err = r.db.Exec(`
		INSERT INTO profiles (id, name, email, age, monthly_income, monthly_savings, risk_tolerance, investments, goals)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Email, p.Age,
		p.MonthlyIncome.String(), p.MonthlySavings.String(),
		string(p.RiskTolerance), investments, goals,
	)
	if err != nil {
		return domain.FinancialProfile{}, fmt.Errorf("failed to insert profile %s: %w", p.ID, err)
	}

	r.log.Debug().Str("profile_id", p.ID).Msg("Profile created")
	return p, nil
}

// GetByID returns a profile by ID, or nil if it does not exist (not an
// error).
func (r *Repository) GetByID(id string) (*domain.FinancialProfile, error) {
	row := r.db.QueryRow(`
		SELECT id, name, email, age, monthly_income, monthly_savings, risk_tolerance, investments, goals
		FROM profiles WHERE id = ?`, id)

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}
	return p, nil
}

// List returns all stored profiles ordered by creation time.
func (r *Repository) List() ([]domain.FinancialProfile, error) {
	rows, err := r.db.Query(`
		SELECT id, name, email, age, monthly_income, monthly_savings, risk_tolerance, investments, goals
		FROM profiles ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var result []domain.FinancialProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

// Update replaces a stored profile. Returns sql.ErrNoRows when the
// profile does not exist.
func (r *Repository) Update(p domain.FinancialProfile) error {
	investments, goals, err := marshalOwned(p)
	if err != nil {
		return err
	}

	res, err := r.db.Exec(`
		UPDATE profiles
		SET name = ?, email = ?, age = ?, monthly_income = ?, monthly_savings = ?,
		    risk_tolerance = ?, investments = ?, goals = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		p.Name, p.Email, p.Age,
		p.MonthlyIncome.String(), p.MonthlySavings.String(),
		string(p.RiskTolerance), investments, goals, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile %s: %w", p.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of profile %s: %w", p.ID, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a profile and, via the schema's cascade, its advice
// history.
func (r *Repository) Delete(id string) error {
	res, err := r.db.Exec("DELETE FROM profiles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete of profile %s: %w", id, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(s scanner) (*domain.FinancialProfile, error) {
	var p domain.FinancialProfile
	var income, savings, tolerance, investments, goals string

	if err := s.Scan(&p.ID, &p.Name, &p.Email, &p.Age, &income, &savings, &tolerance, &investments, &goals); err != nil {
		return nil, err
	}

	var err error
	if p.MonthlyIncome, err = decimal.NewFromString(income); err != nil {
		return nil, fmt.Errorf("invalid stored monthly_income %q: %w", income, err)
	}
	if p.MonthlySavings, err = decimal.NewFromString(savings); err != nil {
		return nil, fmt.Errorf("invalid stored monthly_savings %q: %w", savings, err)
	}
	p.RiskTolerance = domain.RiskTolerance(tolerance)

	if err := json.Unmarshal([]byte(investments), &p.CurrentInvestments); err != nil {
		return nil, fmt.Errorf("invalid stored investments: %w", err)
	}
	if err := json.Unmarshal([]byte(goals), &p.FinancialGoals); err != nil {
		return nil, fmt.Errorf("invalid stored goals: %w", err)
	}

	return &p, nil
}

func marshalOwned(p domain.FinancialProfile) (investments string, goals string, err error) {
	invBytes, err := json.Marshal(p.CurrentInvestments)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal investments: %w", err)
	}
	goalBytes, err := json.Marshal(p.FinancialGoals)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal goals: %w", err)
	}
	return string(invBytes), string(goalBytes), nil
}
