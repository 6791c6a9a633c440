package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryBreakdownEntry is one bucket of the expense breakdown. Derived, not
// persisted.
type CategoryBreakdownEntry struct {
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Percent decimal.Decimal `json:"percent"`
	Color   string          `json:"color"`
}

// MonthTotal is one bar of the trailing expense histogram
type MonthTotal struct {
	Label string          `json:"label"`
	Year  int             `json:"year"`
	Month time.Month      `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// Summary is the derived dashboard state, recomputed in full on every read
type Summary struct {
	TotalIncome       decimal.Decimal          `json:"totalIncome"`
	TotalExpenses     decimal.Decimal          `json:"totalExpenses"`
	Balance           decimal.Decimal          `json:"balance"`
	CategoryBreakdown []CategoryBreakdownEntry `json:"categoryBreakdown"`
	MonthlyExpenses   []MonthTotal             `json:"monthlyExpenses"`
}
