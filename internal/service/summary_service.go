package service

import (
	"sort"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistogramMonths is the size of the trailing expense histogram window
const HistogramMonths = 6

// SummaryService computes the derived dashboard state. Every call is a full
// recompute over the current record collections; nothing is cached.
type SummaryService struct {
	expenseRepo domain.ExpenseRepository
	incomeRepo  domain.IncomeRepository
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(expenseRepo domain.ExpenseRepository, incomeRepo domain.IncomeRepository) *SummaryService {
	return &SummaryService{
		expenseRepo: expenseRepo,
		incomeRepo:  incomeRepo,
	}
}

// GetSummary loads the user's records, applies the month filter and computes
// totals, balance, category breakdown and the trailing histogram. monthKey is
// either "YYYY-MM" or util.MonthKeyAll.
func (s *SummaryService) GetSummary(userID uuid.UUID, monthKey string) (*domain.Summary, error) {
	year, month, all, err := util.ParseMonthKey(monthKey)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	incomes, err := s.incomeRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	if !all {
		expenses = FilterExpensesByMonth(expenses, year, month)
		incomes = FilterIncomesByMonth(incomes, year, month)
	}

	return Aggregate(expenses, incomes, time.Now()), nil
}

// FilterExpensesByMonth keeps only expenses dated in the given local calendar
// month. Records with a zero date are dropped rather than faulting the view.
func FilterExpensesByMonth(expenses []*domain.Expense, year int, month time.Month) []*domain.Expense {
	filtered := make([]*domain.Expense, 0, len(expenses))
	for _, e := range expenses {
		if util.InLocalMonth(e.Date, year, month) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// FilterIncomesByMonth keeps only incomes dated in the given local calendar month
func FilterIncomesByMonth(incomes []*domain.Income, year int, month time.Month) []*domain.Income {
	filtered := make([]*domain.Income, 0, len(incomes))
	for _, i := range incomes {
		if util.InLocalMonth(i.Date, year, month) {
			filtered = append(filtered, i)
		}
	}
	return filtered
}

// Aggregate is the pure derived-state computation: totals, balance, category
// breakdown and the trailing histogram anchored at now.
func Aggregate(expenses []*domain.Expense, incomes []*domain.Income, now time.Time) *domain.Summary {
	totalIncome := decimal.Zero
	for _, income := range incomes {
		totalIncome = totalIncome.Add(income.Amount)
	}

	totalExpenses := decimal.Zero
	for _, expense := range expenses {
		totalExpenses = totalExpenses.Add(expense.Amount)
	}

	return &domain.Summary{
		TotalIncome:       totalIncome,
		TotalExpenses:     totalExpenses,
		Balance:           totalIncome.Sub(totalExpenses),
		CategoryBreakdown: CategoryBreakdown(expenses, totalExpenses),
		MonthlyExpenses:   MonthlyHistogram(expenses, now),
	}
}

// CategoryBreakdown groups expenses into the fixed bucket set. Unknown
// category keys collapse into "other" so every amount stays accounted for.
// Zero buckets are excluded and percent is 0 when totalExpenses is 0.
func CategoryBreakdown(expenses []*domain.Expense, totalExpenses decimal.Decimal) []domain.CategoryBreakdownEntry {
	amounts := make(map[domain.ExpenseCategory]decimal.Decimal, len(domain.ExpenseCategories))
	for _, info := range domain.ExpenseCategories {
		amounts[info.Key] = decimal.Zero
	}

	for _, expense := range expenses {
		key := domain.ExpenseCategory(expense.Category)
		if _, ok := amounts[key]; !ok {
			key = domain.CategoryOther
		}
		amounts[key] = amounts[key].Add(expense.Amount)
	}

	hundred := decimal.NewFromInt(100)
	breakdown := make([]domain.CategoryBreakdownEntry, 0, len(domain.ExpenseCategories))
	for _, info := range domain.ExpenseCategories {
		amount := amounts[info.Key]
		if amount.IsZero() {
			continue
		}
		percent := decimal.Zero
		if totalExpenses.IsPositive() {
			percent = amount.Div(totalExpenses).Mul(hundred).Round(2)
		}
		breakdown = append(breakdown, domain.CategoryBreakdownEntry{
			Name:    info.Name,
			Amount:  amount,
			Percent: percent,
			Color:   info.Color,
		})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Amount.GreaterThan(breakdown[j].Amount)
	})

	return breakdown
}

// MonthlyHistogram sums expenses per month over the trailing window ending at
// now's month. Months without expenses report zero; expenses outside the
// window are excluded here but still count toward the totals.
func MonthlyHistogram(expenses []*domain.Expense, now time.Time) []domain.MonthTotal {
	window := util.TrailingMonths(now, HistogramMonths)

	totals := make([]domain.MonthTotal, len(window))
	for i, ref := range window {
		totals[i] = domain.MonthTotal{
			Label: ref.Label,
			Year:  ref.Year,
			Month: ref.Month,
			Total: decimal.Zero,
		}
	}

	for _, expense := range expenses {
		for i, ref := range window {
			if util.InLocalMonth(expense.Date, ref.Year, ref.Month) {
				totals[i].Total = totals[i].Total.Add(expense.Amount)
				break
			}
		}
	}

	return totals
}
