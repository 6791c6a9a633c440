package postgres

import (
	"context"
	"errors"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, subject, email, name, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Subject, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetBySubject retrieves a user by their Auth0 subject
func (r *UserRepository) GetBySubject(subject string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE subject = $1`, subject)
	return scanUser(row)
}

// CreateOrGetBySubject creates a new user or returns the existing one (upsert on login)
func (r *UserRepository) CreateOrGetBySubject(subject, email string, name *string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO users (subject, email, name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (subject) DO UPDATE SET email = EXCLUDED.email
		 RETURNING `+userColumns,
		subject, email, name)
	return scanUser(row)
}

// UpdateName updates only the user's display name
func (r *UserRepository) UpdateName(id uuid.UUID, name string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE users SET name = $2 WHERE id = $1 RETURNING `+userColumns,
		id, name)
	return scanUser(row)
}
