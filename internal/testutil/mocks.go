package testutil

import (
	"sort"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[string]*domain.User
	ByID     map[uuid.UUID]*domain.User
	CreateFn func(subject, email string, name *string) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetBySubject retrieves a user by token subject
func (m *MockUserRepository) GetBySubject(subject string) (*domain.User, error) {
	if user, ok := m.Users[subject]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetBySubject creates or retrieves a user by token subject
func (m *MockUserRepository) CreateOrGetBySubject(subject, email string, name *string) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(subject, email, name)
	}
	if user, ok := m.Users[subject]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:        uuid.New(),
		Subject:   subject,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now(),
	}
	m.Users[subject] = user
	m.ByID[user.ID] = user
	return user, nil
}

// UpdateName updates only the user's display name
func (m *MockUserRepository) UpdateName(id uuid.UUID, name string) (*domain.User, error) {
	user, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Name = &name
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Subject] = user
	m.ByID[user.ID] = user
}

// MockSettingsRepository is a mock implementation of domain.SettingsRepository
type MockSettingsRepository struct {
	Data   map[uuid.UUID]*domain.Settings
	SaveFn func(settings *domain.Settings) (*domain.Settings, error)
}

// NewMockSettingsRepository creates a new MockSettingsRepository
func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{Data: make(map[uuid.UUID]*domain.Settings)}
}

// Get retrieves the settings for a user
func (m *MockSettingsRepository) Get(userID uuid.UUID) (*domain.Settings, error) {
	if settings, ok := m.Data[userID]; ok {
		return settings, nil
	}
	return nil, domain.ErrNotFound
}

// Save upserts the settings for a user
func (m *MockSettingsRepository) Save(settings *domain.Settings) (*domain.Settings, error) {
	if m.SaveFn != nil {
		return m.SaveFn(settings)
	}
	settings.UpdatedAt = time.Now()
	m.Data[settings.UserID] = settings
	return settings, nil
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses map[uuid.UUID]*domain.Expense
	CreateFn func(expense *domain.Expense) (*domain.Expense, error)
	DeleteFn func(userID uuid.UUID, id uuid.UUID) error
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{Expenses: make(map[uuid.UUID]*domain.Expense)}
}

// Create creates a new expense
func (m *MockExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(expense)
	}
	expense.CreatedAt = time.Now()
	expense.UpdatedAt = expense.CreatedAt
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// GetByID retrieves an expense scoped to a user
func (m *MockExpenseRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Expense, error) {
	if expense, ok := m.Expenses[id]; ok && expense.UserID == userID {
		return expense, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// GetByUser retrieves all expenses for a user, newest first
func (m *MockExpenseRepository) GetByUser(userID uuid.UUID) ([]*domain.Expense, error) {
	var result []*domain.Expense
	for _, expense := range m.Expenses {
		if expense.UserID == userID {
			result = append(result, expense)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

// Update updates an existing expense
func (m *MockExpenseRepository) Update(userID uuid.UUID, id uuid.UUID, data *domain.UpdateExpenseData) (*domain.Expense, error) {
	expense, ok := m.Expenses[id]
	if !ok || expense.UserID != userID {
		return nil, domain.ErrExpenseNotFound
	}
	expense.Description = data.Description
	expense.Amount = data.Amount
	expense.Category = data.Category
	expense.Date = data.Date
	expense.Notes = data.Notes
	expense.GoalID = data.GoalID
	expense.UpdatedAt = time.Now()
	return expense, nil
}

// SetReceiptPath sets or clears the receipt path of an expense
func (m *MockExpenseRepository) SetReceiptPath(userID uuid.UUID, id uuid.UUID, path *string) (*domain.Expense, error) {
	expense, ok := m.Expenses[id]
	if !ok || expense.UserID != userID {
		return nil, domain.ErrExpenseNotFound
	}
	expense.ReceiptPath = path
	expense.UpdatedAt = time.Now()
	return expense, nil
}

// Delete removes an expense
func (m *MockExpenseRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(userID, id)
	}
	expense, ok := m.Expenses[id]
	if !ok || expense.UserID != userID {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	m.Expenses[expense.ID] = expense
}

// MockIncomeRepository is a mock implementation of domain.IncomeRepository
type MockIncomeRepository struct {
	Incomes map[uuid.UUID]*domain.Income
}

// NewMockIncomeRepository creates a new MockIncomeRepository
func NewMockIncomeRepository() *MockIncomeRepository {
	return &MockIncomeRepository{Incomes: make(map[uuid.UUID]*domain.Income)}
}

// Create creates a new income record
func (m *MockIncomeRepository) Create(income *domain.Income) (*domain.Income, error) {
	income.CreatedAt = time.Now()
	income.UpdatedAt = income.CreatedAt
	m.Incomes[income.ID] = income
	return income, nil
}

// GetByID retrieves an income record scoped to a user
func (m *MockIncomeRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Income, error) {
	if income, ok := m.Incomes[id]; ok && income.UserID == userID {
		return income, nil
	}
	return nil, domain.ErrIncomeNotFound
}

// GetByUser retrieves all income records for a user, newest first
func (m *MockIncomeRepository) GetByUser(userID uuid.UUID) ([]*domain.Income, error) {
	var result []*domain.Income
	for _, income := range m.Incomes {
		if income.UserID == userID {
			result = append(result, income)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

// Update updates an existing income record
func (m *MockIncomeRepository) Update(userID uuid.UUID, id uuid.UUID, data *domain.UpdateIncomeData) (*domain.Income, error) {
	income, ok := m.Incomes[id]
	if !ok || income.UserID != userID {
		return nil, domain.ErrIncomeNotFound
	}
	income.Description = data.Description
	income.Amount = data.Amount
	income.Category = data.Category
	income.Date = data.Date
	income.Notes = data.Notes
	income.UpdatedAt = time.Now()
	return income, nil
}

// Delete removes an income record
func (m *MockIncomeRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	income, ok := m.Incomes[id]
	if !ok || income.UserID != userID {
		return domain.ErrIncomeNotFound
	}
	delete(m.Incomes, id)
	return nil
}

// AddIncome adds an income record to the mock repository (helper for tests)
func (m *MockIncomeRepository) AddIncome(income *domain.Income) {
	if income.ID == uuid.Nil {
		income.ID = uuid.New()
	}
	m.Incomes[income.ID] = income
}

// MockGoalRepository is a mock implementation of domain.GoalRepository
type MockGoalRepository struct {
	Goals                map[uuid.UUID]*domain.Goal
	AddToCurrentAmountFn func(userID uuid.UUID, id uuid.UUID, delta decimal.Decimal) (*domain.Goal, error)
}

// NewMockGoalRepository creates a new MockGoalRepository
func NewMockGoalRepository() *MockGoalRepository {
	return &MockGoalRepository{Goals: make(map[uuid.UUID]*domain.Goal)}
}

// Create creates a new goal
func (m *MockGoalRepository) Create(goal *domain.Goal) (*domain.Goal, error) {
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = goal.CreatedAt
	m.Goals[goal.ID] = goal
	return goal, nil
}

// GetByID retrieves a goal scoped to a user
func (m *MockGoalRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Goal, error) {
	if goal, ok := m.Goals[id]; ok && goal.UserID == userID {
		return goal, nil
	}
	return nil, domain.ErrGoalNotFound
}

// GetByTitle retrieves the oldest goal with the given title
func (m *MockGoalRepository) GetByTitle(userID uuid.UUID, title string) (*domain.Goal, error) {
	var match *domain.Goal
	for _, goal := range m.Goals {
		if goal.UserID != userID || goal.Title != title {
			continue
		}
		if match == nil || goal.CreatedAt.Before(match.CreatedAt) {
			match = goal
		}
	}
	if match == nil {
		return nil, domain.ErrGoalNotFound
	}
	return match, nil
}

// GetByUser retrieves all goals for a user, oldest first
func (m *MockGoalRepository) GetByUser(userID uuid.UUID) ([]*domain.Goal, error) {
	var result []*domain.Goal
	for _, goal := range m.Goals {
		if goal.UserID == userID {
			result = append(result, goal)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Update updates the general fields of a goal
func (m *MockGoalRepository) Update(userID uuid.UUID, id uuid.UUID, data *domain.UpdateGoalData) (*domain.Goal, error) {
	goal, ok := m.Goals[id]
	if !ok || goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	goal.Title = data.Title
	goal.Description = data.Description
	goal.TargetAmount = data.TargetAmount
	goal.Deadline = data.Deadline
	goal.UpdatedAt = time.Now()
	return goal, nil
}

// AddToCurrentAmount adjusts currentAmount by delta, flooring at zero
func (m *MockGoalRepository) AddToCurrentAmount(userID uuid.UUID, id uuid.UUID, delta decimal.Decimal) (*domain.Goal, error) {
	if m.AddToCurrentAmountFn != nil {
		return m.AddToCurrentAmountFn(userID, id, delta)
	}
	goal, ok := m.Goals[id]
	if !ok || goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	next := goal.CurrentAmount.Add(delta)
	if next.IsNegative() {
		next = decimal.Zero
	}
	goal.CurrentAmount = next
	goal.UpdatedAt = time.Now()
	return goal, nil
}

// Delete removes a goal
func (m *MockGoalRepository) Delete(userID uuid.UUID, id uuid.UUID) error {
	goal, ok := m.Goals[id]
	if !ok || goal.UserID != userID {
		return domain.ErrGoalNotFound
	}
	delete(m.Goals, id)
	return nil
}

// AddGoal adds a goal to the mock repository (helper for tests)
func (m *MockGoalRepository) AddGoal(goal *domain.Goal) {
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	m.Goals[goal.ID] = goal
}

// MockBudgetRuleRepository is a mock implementation of domain.BudgetRuleRepository
type MockBudgetRuleRepository struct {
	Rules map[uuid.UUID]map[string]*domain.BudgetRule
}

// NewMockBudgetRuleRepository creates a new MockBudgetRuleRepository
func NewMockBudgetRuleRepository() *MockBudgetRuleRepository {
	return &MockBudgetRuleRepository{Rules: make(map[uuid.UUID]map[string]*domain.BudgetRule)}
}

func (m *MockBudgetRuleRepository) userRules(userID uuid.UUID) map[string]*domain.BudgetRule {
	if m.Rules[userID] == nil {
		m.Rules[userID] = make(map[string]*domain.BudgetRule)
	}
	return m.Rules[userID]
}

// Create inserts a rule; an existing ID is returned unchanged
func (m *MockBudgetRuleRepository) Create(rule *domain.BudgetRule) (*domain.BudgetRule, error) {
	rules := m.userRules(rule.UserID)
	if existing, ok := rules[rule.ID]; ok {
		return existing, nil
	}
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt
	rules[rule.ID] = rule
	return rule, nil
}

// GetByID retrieves a rule scoped to a user
func (m *MockBudgetRuleRepository) GetByID(userID uuid.UUID, id string) (*domain.BudgetRule, error) {
	if rule, ok := m.userRules(userID)[id]; ok {
		return rule, nil
	}
	return nil, domain.ErrBudgetRuleNotFound
}

// GetByUser retrieves all rules for a user, default first then oldest first
func (m *MockBudgetRuleRepository) GetByUser(userID uuid.UUID) ([]*domain.BudgetRule, error) {
	var result []*domain.BudgetRule
	for _, rule := range m.userRules(userID) {
		result = append(result, rule)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].IsDefault != result[j].IsDefault {
			return result[i].IsDefault
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Update replaces the mutable fields of a rule
func (m *MockBudgetRuleRepository) Update(rule *domain.BudgetRule) (*domain.BudgetRule, error) {
	rules := m.userRules(rule.UserID)
	if _, ok := rules[rule.ID]; !ok {
		return nil, domain.ErrBudgetRuleNotFound
	}
	rule.UpdatedAt = time.Now()
	rules[rule.ID] = rule
	return rule, nil
}

// Delete removes a rule
func (m *MockBudgetRuleRepository) Delete(userID uuid.UUID, id string) error {
	rules := m.userRules(userID)
	if _, ok := rules[id]; !ok {
		return domain.ErrBudgetRuleNotFound
	}
	delete(rules, id)
	return nil
}

// PublishedEvent records one call to the mock publisher
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	Events []PublishedEvent
}

// Publish records the event
func (m *MockEventPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}
