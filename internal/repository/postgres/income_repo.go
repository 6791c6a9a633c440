package postgres

import (
	"context"
	"errors"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IncomeRepository implements domain.IncomeRepository using PostgreSQL
type IncomeRepository struct {
	pool *pgxpool.Pool
}

// NewIncomeRepository creates a new IncomeRepository
func NewIncomeRepository(pool *pgxpool.Pool) *IncomeRepository {
	return &IncomeRepository{pool: pool}
}

const incomeColumns = `id, user_id, description, amount, category, date, notes, created_at, updated_at`

func scanIncome(row pgx.Row) (*domain.Income, error) {
	var i domain.Income
	err := row.Scan(&i.ID, &i.UserID, &i.Description, &i.Amount, &i.Category,
		&i.Date, &i.Notes, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIncomeNotFound
		}
		return nil, err
	}
	return &i, nil
}

// Create inserts a new income
func (r *IncomeRepository) Create(income *domain.Income) (*domain.Income, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO incomes (id, user_id, description, amount, category, date, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+incomeColumns,
		income.ID, income.UserID, income.Description, income.Amount,
		income.Category, income.Date, income.Notes)
	return scanIncome(row)
}

// GetByID retrieves an income within the user scope
func (r *IncomeRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Income, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+incomeColumns+` FROM incomes WHERE user_id = $1 AND id = $2`,
		userID, id)
	return scanIncome(row)
}

// GetByUser retrieves all incomes of a user, newest first
func (r *IncomeRepository) GetByUser(userID uuid.UUID) ([]*domain.Income, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+incomeColumns+` FROM incomes WHERE user_id = $1 ORDER BY date DESC, created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incomes := make([]*domain.Income, 0)
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, income)
	}
	return incomes, rows.Err()
}

// Update replaces the mutable fields of an income
func (r *IncomeRepository) Update(userID uuid.UUID, id uuid.UUID, data *domain.UpdateIncomeData) (*domain.Income, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE incomes
		 SET description = $3, amount = $4, category = $5, date = $6, notes = $7, updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+incomeColumns,
		userID, id, data.Description, data.Amount, data.Category, data.Date, data.Notes)
	return scanIncome(row)
}

// Delete removes an income within the user scope
func (r *IncomeRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM incomes WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrIncomeNotFound
	}
	return nil
}
