package postgres

import (
	"context"
	"errors"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepository implements domain.SettingsRepository using PostgreSQL
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// scanSettings maps a row to domain settings. Only the currency code is
// stored; symbol and name come from the fixed list.
func scanSettings(row pgx.Row) (*domain.Settings, error) {
	var s domain.Settings
	var code string
	err := row.Scan(&s.UserID, &code, &s.ActiveBudgetRuleID, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	currency, ok := domain.CurrencyByCode(code)
	if !ok {
		currency = domain.DefaultCurrency
	}
	s.Currency = currency
	return &s, nil
}

// Get retrieves the settings row for a user
func (r *SettingsRepository) Get(userID uuid.UUID) (*domain.Settings, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT user_id, currency, active_budget_rule_id, updated_at
		 FROM settings WHERE user_id = $1`, userID)
	return scanSettings(row)
}

// Save upserts the settings row for a user
func (r *SettingsRepository) Save(settings *domain.Settings) (*domain.Settings, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO settings (user_id, currency, active_budget_rule_id, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id) DO UPDATE SET
			currency = EXCLUDED.currency,
			active_budget_rule_id = EXCLUDED.active_budget_rule_id,
			updated_at = now()
		 RETURNING user_id, currency, active_budget_rule_id, updated_at`,
		settings.UserID, settings.Currency.Code, settings.ActiveBudgetRuleID)
	return scanSettings(row)
}
