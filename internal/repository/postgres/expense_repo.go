package postgres

import (
	"context"
	"errors"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = `id, user_id, description, amount, category, date, notes, goal_id, receipt_path, created_at, updated_at`

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	err := row.Scan(&e.ID, &e.UserID, &e.Description, &e.Amount, &e.Category,
		&e.Date, &e.Notes, &e.GoalID, &e.ReceiptPath, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Create inserts a new expense
func (r *ExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO expenses (id, user_id, description, amount, category, date, notes, goal_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+expenseColumns,
		expense.ID, expense.UserID, expense.Description, expense.Amount,
		expense.Category, expense.Date, expense.Notes, expense.GoalID)
	return scanExpense(row)
}

// GetByID retrieves an expense within the user scope
func (r *ExpenseRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Expense, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+expenseColumns+` FROM expenses WHERE user_id = $1 AND id = $2`,
		userID, id)
	return scanExpense(row)
}

// GetByUser retrieves all expenses of a user, newest first
func (r *ExpenseRepository) GetByUser(userID uuid.UUID) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+expenseColumns+` FROM expenses WHERE user_id = $1 ORDER BY date DESC, created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// Update replaces the mutable fields of an expense
func (r *ExpenseRepository) Update(userID uuid.UUID, id uuid.UUID, data *domain.UpdateExpenseData) (*domain.Expense, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE expenses
		 SET description = $3, amount = $4, category = $5, date = $6, notes = $7, goal_id = $8, updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+expenseColumns,
		userID, id, data.Description, data.Amount, data.Category, data.Date, data.Notes, data.GoalID)
	return scanExpense(row)
}

// SetReceiptPath attaches or clears the stored receipt reference
func (r *ExpenseRepository) SetReceiptPath(userID uuid.UUID, id uuid.UUID, path *string) (*domain.Expense, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE expenses SET receipt_path = $3, updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+expenseColumns,
		userID, id, path)
	return scanExpense(row)
}

// Delete removes an expense within the user scope
func (r *ExpenseRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM expenses WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}
