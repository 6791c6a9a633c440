package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Goal struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	Title         string          `json:"title"`
	Description   *string         `json:"description,omitempty"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      string          `json:"deadline"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Progress returns the completion percentage of the goal, capped at 100.
// A goal with a non-positive target reports 0 rather than faulting.
func (g *Goal) Progress() decimal.Decimal {
	if g.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	percent := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100))
	hundred := decimal.NewFromInt(100)
	if percent.GreaterThan(hundred) {
		return hundred
	}
	return percent.Round(2)
}

// UpdateGoalData holds the general-update fields of a goal. CurrentAmount is
// deliberately absent: it only moves through the funding paths.
type UpdateGoalData struct {
	Title        string
	Description  *string
	TargetAmount decimal.Decimal
	Deadline     string
}

type GoalRepository interface {
	Create(goal *Goal) (*Goal, error)
	GetByID(userID uuid.UUID, id uuid.UUID) (*Goal, error)
	GetByTitle(userID uuid.UUID, title string) (*Goal, error)
	GetByUser(userID uuid.UUID) ([]*Goal, error)
	Update(userID uuid.UUID, id uuid.UUID, data *UpdateGoalData) (*Goal, error)
	// AddToCurrentAmount adjusts currentAmount by delta (which may be
	// negative) and floors the result at zero.
	AddToCurrentAmount(userID uuid.UUID, id uuid.UUID, delta decimal.Decimal) (*Goal, error)
	Delete(userID uuid.UUID, id uuid.UUID) error
}
