package service

import (
	"errors"
	"strings"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/util"
	"github.com/centavo-app/centavo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetRuleService manages percentage-split budget rules and evaluates them
// against actual spending. The built-in 50/30/20 rule is guaranteed present
// and immutable.
type BudgetRuleService struct {
	ruleRepo       domain.BudgetRuleRepository
	settingsRepo   domain.SettingsRepository
	expenseRepo    domain.ExpenseRepository
	incomeRepo     domain.IncomeRepository
	eventPublisher websocket.EventPublisher
}

// NewBudgetRuleService creates a new BudgetRuleService
func NewBudgetRuleService(
	ruleRepo domain.BudgetRuleRepository,
	settingsRepo domain.SettingsRepository,
	expenseRepo domain.ExpenseRepository,
	incomeRepo domain.IncomeRepository,
) *BudgetRuleService {
	return &BudgetRuleService{
		ruleRepo:     ruleRepo,
		settingsRepo: settingsRepo,
		expenseRepo:  expenseRepo,
		incomeRepo:   incomeRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BudgetRuleService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *BudgetRuleService) publish(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// ensureDefaultRule re-inserts the 50/30/20 rule if a lower-level path
// removed it. Returns the default rule.
func (s *BudgetRuleService) ensureDefaultRule(userID uuid.UUID) (*domain.BudgetRule, error) {
	rule, err := s.ruleRepo.GetByID(userID, domain.DefaultBudgetRuleID)
	if err == nil {
		return rule, nil
	}
	if !errors.Is(err, domain.ErrBudgetRuleNotFound) {
		return nil, err
	}
	return s.ruleRepo.Create(domain.DefaultBudgetRule(userID))
}

// GetRules returns all rules of the user, guaranteeing the default is present
func (s *BudgetRuleService) GetRules(userID uuid.UUID) ([]*domain.BudgetRule, error) {
	if _, err := s.ensureDefaultRule(userID); err != nil {
		return nil, err
	}
	return s.ruleRepo.GetByUser(userID)
}

// GetRuleByID retrieves a single rule within the user scope
func (s *BudgetRuleService) GetRuleByID(userID uuid.UUID, id string) (*domain.BudgetRule, error) {
	if id == domain.DefaultBudgetRuleID {
		return s.ensureDefaultRule(userID)
	}
	return s.ruleRepo.GetByID(userID, id)
}

// RuleCategoryInput is one allocation slice of a rule create/update request
type RuleCategoryInput struct {
	Name              string
	Percentage        decimal.Decimal
	Color             string
	ExpenseCategories []string
}

// validateCategories checks names, bounds and the sum-to-100 invariant
func validateCategories(categories []RuleCategoryInput) ([]domain.RuleCategory, error) {
	if len(categories) == 0 {
		return nil, domain.ErrRuleCategoryRequired
	}

	hundred := decimal.NewFromInt(100)
	sum := decimal.Zero
	out := make([]domain.RuleCategory, 0, len(categories))

	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, domain.ErrNameRequired
		}
		if c.Percentage.IsNegative() || c.Percentage.GreaterThan(hundred) {
			return nil, domain.ErrInvalidPercentages
		}
		for _, key := range c.ExpenseCategories {
			if !domain.IsExpenseCategory(key) {
				return nil, domain.ErrInvalidCategory
			}
		}
		sum = sum.Add(c.Percentage)
		out = append(out, domain.RuleCategory{
			Name:              name,
			Percentage:        c.Percentage,
			Color:             c.Color,
			ExpenseCategories: c.ExpenseCategories,
		})
	}

	if !sum.Equal(hundred) {
		return nil, domain.ErrInvalidPercentages
	}
	return out, nil
}

// CreateRuleInput holds the input for creating a budget rule
type CreateRuleInput struct {
	Name        string
	Description *string
	Categories  []RuleCategoryInput
}

// CreateRule creates a custom budget rule. Category percentages must sum to
// exactly 100 or the request is rejected before any mutation.
func (s *BudgetRuleService) CreateRule(userID uuid.UUID, input CreateRuleInput) (*domain.BudgetRule, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}

	categories, err := validateCategories(input.Categories)
	if err != nil {
		return nil, err
	}

	rule := &domain.BudgetRule{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: input.Description,
		Categories:  categories,
		IsDefault:   false,
	}

	created, err := s.ruleRepo.Create(rule)
	if err != nil {
		return nil, err
	}

	s.publish(userID, websocket.BudgetRuleCreated(created))
	return created, nil
}

// UpdateRule updates a custom rule. The default rule is immutable.
func (s *BudgetRuleService) UpdateRule(userID uuid.UUID, id string, input CreateRuleInput) (*domain.BudgetRule, error) {
	if id == domain.DefaultBudgetRuleID {
		return nil, domain.ErrDefaultRuleImmutable
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}

	categories, err := validateCategories(input.Categories)
	if err != nil {
		return nil, err
	}

	existing, err := s.ruleRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	existing.Name = name
	existing.Description = input.Description
	existing.Categories = categories

	updated, err := s.ruleRepo.Update(existing)
	if err != nil {
		return nil, err
	}

	s.publish(userID, websocket.BudgetRuleUpdated(updated))
	return updated, nil
}

// DeleteRule removes a custom rule. Deleting the default rule is rejected.
// If the deleted rule was active, the selection falls back to the default.
func (s *BudgetRuleService) DeleteRule(userID uuid.UUID, id string) error {
	if id == domain.DefaultBudgetRuleID {
		return domain.ErrDefaultRuleImmutable
	}

	existing, err := s.ruleRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.ruleRepo.Delete(userID, id); err != nil {
		return err
	}

	settings, err := s.settingsRepo.Get(userID)
	if err == nil && settings.ActiveBudgetRuleID == id {
		settings.ActiveBudgetRuleID = domain.DefaultBudgetRuleID
		if _, err := s.settingsRepo.Save(settings); err != nil {
			return err
		}
	}

	s.publish(userID, websocket.BudgetRuleDeleted(existing))
	return nil
}

// SetActiveRule selects which rule the budget screen evaluates
func (s *BudgetRuleService) SetActiveRule(userID uuid.UUID, id string) (*domain.Settings, error) {
	if _, err := s.GetRuleByID(userID, id); err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(userID)
	if err != nil {
		return nil, err
	}

	settings.ActiveBudgetRuleID = id
	saved, err := s.settingsRepo.Save(settings)
	if err != nil {
		return nil, err
	}

	s.publish(userID, websocket.SettingsUpdated(saved))
	return saved, nil
}

// GetActiveRule resolves the user's active rule, falling back to the default
// when the reference dangles.
func (s *BudgetRuleService) GetActiveRule(userID uuid.UUID) (*domain.BudgetRule, error) {
	settings, err := s.settingsRepo.Get(userID)
	if err != nil {
		return s.ensureDefaultRule(userID)
	}

	rule, err := s.ruleRepo.GetByID(userID, settings.ActiveBudgetRuleID)
	if err != nil {
		return s.ensureDefaultRule(userID)
	}
	return rule, nil
}

// RuleEvaluation is the budget screen's payload: the rule, its per-category
// values, and the income they were computed against.
type RuleEvaluation struct {
	Rule        *domain.BudgetRule         `json:"rule"`
	TotalIncome decimal.Decimal            `json:"totalIncome"`
	Categories  []domain.RuleCategoryValue `json:"categories"`
}

// EvaluateActiveRule evaluates the active rule against the user's records,
// optionally narrowed to one month.
func (s *BudgetRuleService) EvaluateActiveRule(userID uuid.UUID, monthKey string) (*RuleEvaluation, error) {
	year, month, all, err := util.ParseMonthKey(monthKey)
	if err != nil {
		return nil, err
	}

	rule, err := s.GetActiveRule(userID)
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

	totalIncome := decimal.Zero
	for _, income := range incomes {
		totalIncome = totalIncome.Add(income.Amount)
	}

	return &RuleEvaluation{
		Rule:        rule,
		TotalIncome: totalIncome,
		Categories:  EvaluateRule(rule, totalIncome, expenses),
	}, nil
}

// EvaluateRule computes target, actual and completion per rule category.
// Actual spending is attributed through each category's explicit expense
// mapping, or the static bucket table for categories without one; custom
// names outside both yield zero. A stored rule whose percentages no longer
// sum to 100 still evaluates category by category rather than faulting.
func EvaluateRule(rule *domain.BudgetRule, totalIncome decimal.Decimal, expenses []*domain.Expense) []domain.RuleCategoryValue {
	hundred := decimal.NewFromInt(100)

	// Sum spending once per expense category key
	spentByKey := make(map[string]decimal.Decimal)
	for _, expense := range expenses {
		key := expense.Category
		if !domain.IsExpenseCategory(key) {
			key = string(domain.CategoryOther)
		}
		spentByKey[key] = spentByKey[key].Add(expense.Amount)
	}

	values := make([]domain.RuleCategoryValue, 0, len(rule.Categories))
	for _, category := range rule.Categories {
		target := totalIncome.Mul(category.Percentage).Div(hundred)

		mapping := category.ExpenseCategories
		if len(mapping) == 0 {
			mapping = domain.StaticBucketMapping[category.Name]
		}

		current := decimal.Zero
		for _, key := range mapping {
			current = current.Add(spentByKey[key])
		}

		percent := decimal.Zero
		overTarget := false
		if target.IsPositive() {
			overTarget = current.GreaterThan(target)
			percent = current.Div(target).Mul(hundred).Round(2)
			if percent.GreaterThan(hundred) {
				percent = hundred
			}
		}

		values = append(values, domain.RuleCategoryValue{
			Name:       category.Name,
			Percentage: category.Percentage,
			Color:      category.Color,
			Target:     target,
			Current:    current,
			Percent:    percent,
			OverTarget: overTarget,
		})
	}

	return values
}
