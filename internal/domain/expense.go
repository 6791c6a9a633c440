package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalNotePrefix is the textual convention the original client used to link a
// funding expense back to its goal. New funding expenses carry a structural
// GoalID; the notes convention is still written for display compatibility and
// honored when resolving records that predate the foreign key.
const GoalNotePrefix = "Fondos para meta: "

type Expense struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	Notes       *string         `json:"notes,omitempty"`
	GoalID      *uuid.UUID      `json:"goalId,omitempty"`
	ReceiptPath *string         `json:"receiptPath,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// UpdateExpenseData holds the mutable fields of an expense
type UpdateExpenseData struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	Notes       *string
	GoalID      *uuid.UUID
}

type ExpenseRepository interface {
	Create(expense *Expense) (*Expense, error)
	GetByID(userID uuid.UUID, id uuid.UUID) (*Expense, error)
	GetByUser(userID uuid.UUID) ([]*Expense, error)
	Update(userID uuid.UUID, id uuid.UUID, data *UpdateExpenseData) (*Expense, error)
	SetReceiptPath(userID uuid.UUID, id uuid.UUID, path *string) (*Expense, error)
	Delete(userID uuid.UUID, id uuid.UUID) error
}
