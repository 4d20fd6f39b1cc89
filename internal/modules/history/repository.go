// Package history persists generated advice records with expiration
// timestamps so households can review past advice without the table
// growing without bound.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthwise/advisor/internal/domain"
)

// Record is one stored advice result for a profile.
type Record struct {
	ID        string
	ProfileID string
	Advice    domain.FinancialAdvice
	ExpiresAt time.Time
}

// Repository provides advice history storage.
type Repository struct {
	db  *sql.DB
	ttl time.Duration
}

// NewRepository creates a new history repository. ttl is added to the
// current time when storing to calculate expires_at.
func NewRepository(db *sql.DB, ttl time.Duration) *Repository {
	return &Repository{db: db, ttl: ttl}
}

// Save stores a generated advice record for a profile.
func (r *Repository) Save(profileID string, advice domain.FinancialAdvice) (Record, error) {
	rec := Record{
		ID:        advice.ID,
		ProfileID: profileID,
		Advice:    advice,
		ExpiresAt: time.Now().UTC().Add(r.ttl),
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	items, err := json.Marshal(advice.ActionItems)
	if err != nil {
		return Record{}, fmt.Errorf("failed to marshal action items: %w", err)
	}

	var impact interface{}
	if advice.ProjectedImpact != nil {
		impact = advice.ProjectedImpact.String()
	}

	_, err = r.db.Exec(`
		INSERT INTO advice_history (id, profile_id, title, description, category, projected_impact, action_items, generated_date, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, profileID, advice.Title, advice.Description,
		string(advice.Category), impact, string(items),
		advice.GeneratedDate.UTC(), rec.ExpiresAt,
	)
	if err != nil {
		return Record{}, fmt.Errorf("failed to insert advice record %s: %w", rec.ID, err)
	}
	return rec, nil
}

// ListByProfile returns non-expired advice records for a profile,
// newest first.
func (r *Repository) ListByProfile(profileID string) ([]Record, error) {
	rows, err := r.db.Query(`
		SELECT id, profile_id, title, description, category, projected_impact, action_items, generated_date, expires_at
		FROM advice_history
		WHERE profile_id = ? AND expires_at > ?
		ORDER BY generated_date DESC`,
		profileID, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list advice history for %s: %w", profileID, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var category, items string
		var impact sql.NullString

		if err := rows.Scan(&rec.ID, &rec.ProfileID, &rec.Advice.Title, &rec.Advice.Description,
			&category, &impact, &items, &rec.Advice.GeneratedDate, &rec.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan advice record: %w", err)
		}

		rec.Advice.ID = rec.ID
		rec.Advice.Category = domain.AdviceCategory(category)
		if impact.Valid {
			d, err := decimal.NewFromString(impact.String)
			if err != nil {
				return nil, fmt.Errorf("invalid stored projected_impact %q: %w", impact.String, err)
			}
			rec.Advice.ProjectedImpact = &d
		}
		if err := json.Unmarshal([]byte(items), &rec.Advice.ActionItems); err != nil {
			return nil, fmt.Errorf("invalid stored action_items: %w", err)
		}

		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteExpired removes all records whose TTL has passed and returns
// the number deleted.
func (r *Repository) DeleteExpired() (int64, error) {
	res, err := r.db.Exec("DELETE FROM advice_history WHERE expires_at <= ?", time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired advice records: %w", err)
	}
	return res.RowsAffected()
}
