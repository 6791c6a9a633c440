package postgres

import (
	"context"
	"errors"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// GoalRepository implements domain.GoalRepository using PostgreSQL
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

const goalColumns = `id, user_id, title, description, target_amount, current_amount, deadline, created_at, updated_at`

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var g domain.Goal
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Description,
		&g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return &g, nil
}

// Create inserts a new goal
func (r *GoalRepository) Create(goal *domain.Goal) (*domain.Goal, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO goals (id, user_id, title, description, target_amount, current_amount, deadline)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+goalColumns,
		goal.ID, goal.UserID, goal.Title, goal.Description,
		goal.TargetAmount, goal.CurrentAmount, goal.Deadline)
	return scanGoal(row)
}

// GetByID retrieves a goal within the user scope
func (r *GoalRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Goal, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 AND id = $2`,
		userID, id)
	return scanGoal(row)
}

// GetByTitle retrieves a goal by its exact title. Titles are not unique; the
// oldest match wins, mirroring how the legacy notes convention resolved.
func (r *GoalRepository) GetByTitle(userID uuid.UUID, title string) (*domain.Goal, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 AND title = $2 ORDER BY created_at ASC LIMIT 1`,
		userID, title)
	return scanGoal(row)
}

// GetByUser retrieves all goals of a user, oldest first
func (r *GoalRepository) GetByUser(userID uuid.UUID) ([]*domain.Goal, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY created_at ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make([]*domain.Goal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// Update replaces the general fields of a goal. CurrentAmount only moves
// through AddToCurrentAmount.
func (r *GoalRepository) Update(userID uuid.UUID, id uuid.UUID, data *domain.UpdateGoalData) (*domain.Goal, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE goals
		 SET title = $3, description = $4, target_amount = $5, deadline = $6, updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+goalColumns,
		userID, id, data.Title, data.Description, data.TargetAmount, data.Deadline)
	return scanGoal(row)
}

// AddToCurrentAmount adjusts the accumulated amount atomically, flooring at zero
func (r *GoalRepository) AddToCurrentAmount(userID uuid.UUID, id uuid.UUID, delta decimal.Decimal) (*domain.Goal, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE goals
		 SET current_amount = GREATEST(0, current_amount + $3), updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+goalColumns,
		userID, id, delta)
	return scanGoal(row)
}

// Delete removes a goal within the user scope
func (r *GoalRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM goals WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}
