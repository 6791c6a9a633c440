package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Income struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	Notes       *string         `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// UpdateIncomeData holds the mutable fields of an income record
type UpdateIncomeData struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	Notes       *string
}

type IncomeRepository interface {
	Create(income *Income) (*Income, error)
	GetByID(userID uuid.UUID, id uuid.UUID) (*Income, error)
	GetByUser(userID uuid.UUID) ([]*Income, error)
	Update(userID uuid.UUID, id uuid.UUID, data *UpdateIncomeData) (*Income, error)
	Delete(userID uuid.UUID, id uuid.UUID) error
}
