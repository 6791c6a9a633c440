package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BudgetRuleRepository implements domain.BudgetRuleRepository using
// PostgreSQL. Category slices are stored as a JSONB document; rules are
// few per user and always read whole.
type BudgetRuleRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRuleRepository creates a new BudgetRuleRepository
func NewBudgetRuleRepository(pool *pgxpool.Pool) *BudgetRuleRepository {
	return &BudgetRuleRepository{pool: pool}
}

const ruleColumns = `id, user_id, name, description, categories, is_default, created_at, updated_at`

func scanRule(row pgx.Row) (*domain.BudgetRule, error) {
	var rule domain.BudgetRule
	var categories []byte
	err := row.Scan(&rule.ID, &rule.UserID, &rule.Name, &rule.Description,
		&categories, &rule.IsDefault, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetRuleNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(categories, &rule.Categories); err != nil {
		return nil, fmt.Errorf("failed to decode rule categories: %w", err)
	}
	return &rule, nil
}

// Create inserts a new budget rule
func (r *BudgetRuleRepository) Create(rule *domain.BudgetRule) (*domain.BudgetRule, error) {
	categories, err := json.Marshal(rule.Categories)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rule categories: %w", err)
	}

	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO budget_rules (id, user_id, name, description, categories, is_default)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, id) DO UPDATE SET name = budget_rules.name
		 RETURNING `+ruleColumns,
		rule.ID, rule.UserID, rule.Name, rule.Description, categories, rule.IsDefault)
	return scanRule(row)
}

// GetByID retrieves a rule within the user scope
func (r *BudgetRuleRepository) GetByID(userID uuid.UUID, id string) (*domain.BudgetRule, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+ruleColumns+` FROM budget_rules WHERE user_id = $1 AND id = $2`,
		userID, id)
	return scanRule(row)
}

// GetByUser retrieves all rules of a user, default first then by creation
func (r *BudgetRuleRepository) GetByUser(userID uuid.UUID) ([]*domain.BudgetRule, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+ruleColumns+` FROM budget_rules WHERE user_id = $1 ORDER BY is_default DESC, created_at ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]*domain.BudgetRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// Update replaces the mutable fields of a rule
func (r *BudgetRuleRepository) Update(rule *domain.BudgetRule) (*domain.BudgetRule, error) {
	categories, err := json.Marshal(rule.Categories)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rule categories: %w", err)
	}

	row := r.pool.QueryRow(context.Background(),
		`UPDATE budget_rules
		 SET name = $3, description = $4, categories = $5, updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+ruleColumns,
		rule.UserID, rule.ID, rule.Name, rule.Description, categories)
	return scanRule(row)
}

// Delete removes a rule within the user scope
func (r *BudgetRuleRepository) Delete(userID uuid.UUID, id string) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM budget_rules WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetRuleNotFound
	}
	return nil
}
