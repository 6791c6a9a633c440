package localstore

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestOpen_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expenses, err := store.Expenses().GetByUser(domain.AnonymousUserID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("Expected empty store, got %d expenses", len(expenses))
	}
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	userID := domain.AnonymousUserID
	created, err := store.Expenses().Create(&domain.Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Description: "Groceries",
		Amount:      dec("42.50"),
		Category:    "food",
		Date:        time.Now(),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	goal, err := store.Goals().Create(&domain.Goal{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        "Vacaciones",
		TargetAmount: dec("1000"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Reopen from disk and verify everything survived
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Expected no error reopening, got %v", err)
	}

	expense, err := reopened.Expenses().GetByID(userID, created.ID)
	if err != nil {
		t.Fatalf("Expected expense to survive reopen, got %v", err)
	}
	if !expense.Amount.Equal(dec("42.50")) {
		t.Errorf("Expected amount 42.50, got %s", expense.Amount)
	}

	stored, err := reopened.Goals().GetByID(userID, goal.ID)
	if err != nil {
		t.Fatalf("Expected goal to survive reopen, got %v", err)
	}
	if stored.Title != "Vacaciones" {
		t.Errorf("Expected title 'Vacaciones', got %q", stored.Title)
	}
}

func TestExpenseStore_SortedNewestFirst(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	userID := domain.AnonymousUserID
	old := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)
	recent := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.Local)

	if _, err := store.Expenses().Create(&domain.Expense{ID: uuid.New(), UserID: userID, Description: "Old", Amount: dec("1"), Category: "food", Date: old}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := store.Expenses().Create(&domain.Expense{ID: uuid.New(), UserID: userID, Description: "Recent", Amount: dec("2"), Category: "food", Date: recent}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expenses, err := store.Expenses().GetByUser(userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("Expected 2 expenses, got %d", len(expenses))
	}
	if expenses[0].Description != "Recent" {
		t.Errorf("Expected newest first, got %q", expenses[0].Description)
	}
}

func TestExpenseStore_TargetsRecordsByID(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	userID := domain.AnonymousUserID
	first, err := store.Expenses().Create(&domain.Expense{ID: uuid.New(), UserID: userID, Description: "Groceries", Amount: dec("42.50"), Category: "food", Date: time.Now()})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := store.Expenses().Create(&domain.Expense{ID: uuid.New(), UserID: userID, Description: "Cinema", Amount: dec("12.00"), Category: "entertainment", Date: time.Now()})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	found, err := store.Expenses().GetByID(userID, second.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if found.Description != "Cinema" {
		t.Errorf("Expected 'Cinema', got %q", found.Description)
	}

	if err := store.Expenses().Delete(userID, first.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := store.Expenses().GetByID(userID, first.ID); !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Errorf("Expected ErrExpenseNotFound for the deleted record, got %v", err)
	}
	if _, err := store.Expenses().GetByID(userID, second.ID); err != nil {
		t.Errorf("Expected the other record to survive the delete, got %v", err)
	}
}

func TestGoalStore_TargetsRecordsByID(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	userID := domain.AnonymousUserID
	first, err := store.Goals().Create(&domain.Goal{ID: uuid.New(), UserID: userID, Title: "Vacaciones", TargetAmount: dec("1000")})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := store.Goals().Create(&domain.Goal{ID: uuid.New(), UserID: userID, Title: "Emergencias", TargetAmount: dec("3000")})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := store.Goals().AddToCurrentAmount(userID, second.ID, dec("250"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Title != "Emergencias" {
		t.Errorf("Expected funds added to 'Emergencias', got %q", updated.Title)
	}

	untouched, err := store.Goals().GetByID(userID, first.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !untouched.CurrentAmount.IsZero() {
		t.Errorf("Expected the other goal untouched, got %s", untouched.CurrentAmount)
	}
}

func TestGoalStore_AddToCurrentAmountFloorsAtZero(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	userID := domain.AnonymousUserID
	goal, err := store.Goals().Create(&domain.Goal{ID: uuid.New(), UserID: userID, Title: "Goal", TargetAmount: dec("100"), CurrentAmount: dec("30")})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := store.Goals().AddToCurrentAmount(userID, goal.ID, dec("-50"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !updated.CurrentAmount.IsZero() {
		t.Errorf("Expected floor at zero, got %s", updated.CurrentAmount)
	}
}

func TestBudgetRuleStore_CreateIsIdempotentPerID(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	userID := domain.AnonymousUserID
	first, err := store.BudgetRules().Create(domain.DefaultBudgetRule(userID))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	second, err := store.BudgetRules().Create(domain.DefaultBudgetRule(userID))
	if err != nil {
		t.Fatalf("Expected duplicate create to be a no-op, got %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("Expected the existing rule returned unchanged")
	}

	rules, err := store.BudgetRules().GetByUser(userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rules) != 1 {
		t.Errorf("Expected a single default rule, got %d", len(rules))
	}
}

func TestUserStore_LocalSubjectMapsToAnonymousID(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	user, err := store.Users().CreateOrGetBySubject("local", "local@localhost", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.ID != domain.AnonymousUserID {
		t.Errorf("Expected anonymous user ID, got %s", user.ID)
	}

	again, err := store.Users().CreateOrGetBySubject("local", "local@localhost", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if again.ID != user.ID {
		t.Error("Expected the same user record on repeat lookup")
	}
}

func TestSettingsStore_GetMissing(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = store.Settings().Get(uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestLocalMode_ServiceAssignedIDsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	userID := domain.AnonymousUserID
	expenseService := service.NewExpenseService(store.Expenses(), store.Goals())

	first, err := expenseService.CreateExpense(userID, service.CreateExpenseInput{Description: "Groceries", Amount: dec("42.50"), Category: "food"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := expenseService.CreateExpense(userID, service.CreateExpenseInput{Description: "Cinema", Amount: dec("12.00"), Category: "entertainment"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if first.ID == uuid.Nil || first.ID == second.ID {
		t.Fatalf("Expected distinct generated IDs, got %s and %s", first.ID, second.ID)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Expected no error reopening, got %v", err)
	}
	found, err := reopened.Expenses().GetByID(userID, second.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if found.Description != "Cinema" {
		t.Errorf("Expected 'Cinema', got %q", found.Description)
	}
}

func TestExpenseStore_DeleteScopedToUser(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	owner := uuid.New()
	expense, err := store.Expenses().Create(&domain.Expense{ID: uuid.New(), UserID: owner, Description: "Mine", Amount: dec("5"), Category: "food", Date: time.Now()})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := store.Expenses().Delete(uuid.New(), expense.ID); !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Errorf("Expected ErrExpenseNotFound for foreign delete, got %v", err)
	}

	if _, err := store.Expenses().GetByID(owner, expense.ID); err != nil {
		t.Errorf("Expected expense to survive the foreign delete, got %v", err)
	}
}
