package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultBudgetRuleID identifies the built-in 50/30/20 rule. It must always
// exist and is neither editable nor deletable.
const DefaultBudgetRuleID = "50-30-20"

// RuleCategory is one allocation slice of a budget rule. ExpenseCategories
// lists the expense category keys whose spending counts toward this slice;
// when empty, evaluation falls back to the static name-based bucket table.
type RuleCategory struct {
	Name              string          `json:"name"`
	Percentage        decimal.Decimal `json:"percentage"`
	Color             string          `json:"color"`
	ExpenseCategories []string        `json:"expenseCategories,omitempty"`
}

type BudgetRule struct {
	ID          string         `json:"id"`
	UserID      uuid.UUID      `json:"userId"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Categories  []RuleCategory `json:"categories"`
	IsDefault   bool           `json:"isDefault"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// RuleCategoryValue is the evaluation of one rule category against actual
// spending. Percent is capped at 100; OverTarget preserves the uncapped state.
type RuleCategoryValue struct {
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
	Color      string          `json:"color"`
	Target     decimal.Decimal `json:"target"`
	Current    decimal.Decimal `json:"current"`
	Percent    decimal.Decimal `json:"percent"`
	OverTarget bool            `json:"overTarget"`
}

// StaticBucketMapping maps the canonical rule category names to expense
// category keys. It is the fallback for rule categories that do not define
// their own explicit mapping; custom names outside this table evaluate to a
// current of zero.
var StaticBucketMapping = map[string][]string{
	"Needs":   {"housing", "food", "transport", "utilities", "health"},
	"Wants":   {"entertainment", "other"},
	"Savings": {"savings"},
}

// DefaultBudgetRule returns a fresh copy of the built-in 50/30/20 rule for
// the given user scope.
func DefaultBudgetRule(userID uuid.UUID) *BudgetRule {
	desc := "Regla 50/30/20: necesidades, deseos y ahorros"
	return &BudgetRule{
		ID:          DefaultBudgetRuleID,
		UserID:      userID,
		Name:        "Regla 50/30/20",
		Description: &desc,
		IsDefault:   true,
		Categories: []RuleCategory{
			{
				Name:              "Needs",
				Percentage:        decimal.NewFromInt(50),
				Color:             "#0ea5e9",
				ExpenseCategories: StaticBucketMapping["Needs"],
			},
			{
				Name:              "Wants",
				Percentage:        decimal.NewFromInt(30),
				Color:             "#8b5cf6",
				ExpenseCategories: StaticBucketMapping["Wants"],
			},
			{
				Name:              "Savings",
				Percentage:        decimal.NewFromInt(20),
				Color:             "#10b981",
				ExpenseCategories: StaticBucketMapping["Savings"],
			},
		},
	}
}

type BudgetRuleRepository interface {
	Create(rule *BudgetRule) (*BudgetRule, error)
	GetByID(userID uuid.UUID, id string) (*BudgetRule, error)
	GetByUser(userID uuid.UUID) ([]*BudgetRule, error)
	Update(rule *BudgetRule) (*BudgetRule, error)
	Delete(userID uuid.UUID, id string) error
}
