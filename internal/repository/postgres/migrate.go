package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		subject text NOT NULL UNIQUE,
		email text NOT NULL,
		name text,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		user_id uuid PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		currency text NOT NULL,
		active_budget_rule_id text NOT NULL,
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS goals (
		id uuid PRIMARY KEY,
		user_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title text NOT NULL,
		description text,
		target_amount numeric(14,2) NOT NULL,
		current_amount numeric(14,2) NOT NULL DEFAULT 0,
		deadline text NOT NULL DEFAULT '',
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id uuid PRIMARY KEY,
		user_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		description text NOT NULL,
		amount numeric(14,2) NOT NULL,
		category text NOT NULL,
		date timestamptz NOT NULL,
		notes text,
		goal_id uuid REFERENCES goals(id) ON DELETE SET NULL,
		receipt_path text,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS incomes (
		id uuid PRIMARY KEY,
		user_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		description text NOT NULL,
		amount numeric(14,2) NOT NULL,
		category text NOT NULL,
		date timestamptz NOT NULL,
		notes text,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS budget_rules (
		id text NOT NULL,
		user_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name text NOT NULL,
		description text,
		categories jsonb NOT NULL,
		is_default boolean NOT NULL DEFAULT false,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_user_date ON expenses (user_id, date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_incomes_user_date ON incomes (user_id, date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_goal ON expenses (goal_id) WHERE goal_id IS NOT NULL`,
}

// Migrate applies the schema. Statements are idempotent so startup always
// runs the full list.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
