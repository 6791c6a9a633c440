package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCreateGoal_Success(t *testing.T) {
	goalRepo := testutil.NewMockGoalRepository()
	goalService := NewGoalService(goalRepo, testutil.NewMockExpenseRepository())

	userID := uuid.New()

	goal, err := goalService.CreateGoal(userID, CreateGoalInput{
		Title:        "  Vacaciones  ",
		TargetAmount: dec("1200"),
		Deadline:     "2026-12-31",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if goal.Title != "Vacaciones" {
		t.Errorf("Expected trimmed title 'Vacaciones', got %q", goal.Title)
	}
	if !goal.CurrentAmount.IsZero() {
		t.Errorf("Expected current amount 0, got %s", goal.CurrentAmount)
	}
}

func TestCreateGoal_AssignsDistinctIDs(t *testing.T) {
	goalRepo := testutil.NewMockGoalRepository()
	goalService := NewGoalService(goalRepo, testutil.NewMockExpenseRepository())

	userID := uuid.New()

	first, err := goalService.CreateGoal(userID, CreateGoalInput{Title: "Vacaciones", TargetAmount: dec("1200")})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := goalService.CreateGoal(userID, CreateGoalInput{Title: "Fondo de emergencia", TargetAmount: dec("3000")})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if first.ID == uuid.Nil || second.ID == uuid.Nil {
		t.Fatalf("Expected generated IDs, got %s and %s", first.ID, second.ID)
	}
	if first.ID == second.ID {
		t.Fatalf("Expected distinct IDs, both got %s", first.ID)
	}

	found, err := goalService.GetGoalByID(userID, second.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if found.Title != "Fondo de emergencia" {
		t.Errorf("Expected 'Fondo de emergencia', got %q", found.Title)
	}
}

func TestCreateGoal_EmptyTitle(t *testing.T) {
	goalService := NewGoalService(testutil.NewMockGoalRepository(), testutil.NewMockExpenseRepository())

	_, err := goalService.CreateGoal(uuid.New(), CreateGoalInput{Title: "   ", TargetAmount: dec("100")})
	if !errors.Is(err, domain.ErrTitleRequired) {
		t.Errorf("Expected ErrTitleRequired, got %v", err)
	}
}

func TestCreateGoal_NonPositiveTarget(t *testing.T) {
	goalService := NewGoalService(testutil.NewMockGoalRepository(), testutil.NewMockExpenseRepository())

	_, err := goalService.CreateGoal(uuid.New(), CreateGoalInput{Title: "Goal", TargetAmount: decimal.Zero})
	if !errors.Is(err, domain.ErrInvalidTargetAmount) {
		t.Errorf("Expected ErrInvalidTargetAmount, got %v", err)
	}
}

func TestCreateGoal_NegativeCurrentAmountFloorsAtZero(t *testing.T) {
	goalService := NewGoalService(testutil.NewMockGoalRepository(), testutil.NewMockExpenseRepository())

	goal, err := goalService.CreateGoal(uuid.New(), CreateGoalInput{
		Title:         "Goal",
		TargetAmount:  dec("100"),
		CurrentAmount: dec("-50"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !goal.CurrentAmount.IsZero() {
		t.Errorf("Expected negative initial amount floored at 0, got %s", goal.CurrentAmount)
	}
}

func TestGoalProgress_CapsAtHundred(t *testing.T) {
	goal := &domain.Goal{TargetAmount: dec("100"), CurrentAmount: dec("250")}
	if !goal.Progress().Equal(dec("100")) {
		t.Errorf("Expected progress capped at 100, got %s", goal.Progress())
	}
}

func TestGoalProgress_ZeroTarget(t *testing.T) {
	goal := &domain.Goal{TargetAmount: decimal.Zero, CurrentAmount: dec("50")}
	if !goal.Progress().IsZero() {
		t.Errorf("Expected progress 0 for zero target, got %s", goal.Progress())
	}
}

func TestCreateGoal_TitleTooLong(t *testing.T) {
	goalService := NewGoalService(testutil.NewMockGoalRepository(), testutil.NewMockExpenseRepository())

	title := strings.Repeat("a", domain.MaxTitleLength+1)
	_, err := goalService.CreateGoal(uuid.New(), CreateGoalInput{Title: title, TargetAmount: dec("100")})
	if !errors.Is(err, domain.ErrTitleTooLong) {
		t.Errorf("Expected ErrTitleTooLong, got %v", err)
	}
}

func TestUpdateGoal_TitleTooLong(t *testing.T) {
	goalRepo := testutil.NewMockGoalRepository()
	goalService := NewGoalService(goalRepo, testutil.NewMockExpenseRepository())

	userID := uuid.New()
	goal := &domain.Goal{UserID: userID, Title: "Vacaciones", TargetAmount: dec("1000")}
	goalRepo.AddGoal(goal)

	title := strings.Repeat("a", domain.MaxTitleLength+1)
	_, err := goalService.UpdateGoal(userID, goal.ID, UpdateGoalInput{Title: title, TargetAmount: dec("1000")})
	if !errors.Is(err, domain.ErrTitleTooLong) {
		t.Errorf("Expected ErrTitleTooLong, got %v", err)
	}
}

func TestAddFunds_Success(t *testing.T) {
	goalRepo := testutil.NewMockGoalRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	goalService := NewGoalService(goalRepo, expenseRepo)

	userID := uuid.New()
	goal := &domain.Goal{UserID: userID, Title: "Vacaciones", TargetAmount: dec("1000"), CurrentAmount: dec("100")}
	goalRepo.AddGoal(goal)

	result, err := goalService.AddFunds(userID, goal.ID, dec("200"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.Goal.CurrentAmount.Equal(dec("300")) {
		t.Errorf("Expected current amount 300, got %s", result.Goal.CurrentAmount)
	}
	if result.Expense.ID == uuid.Nil {
		t.Error("Expected a generated ID on the funding expense")
	}
	if result.Expense.Category != string(domain.CategorySavings) {
		t.Errorf("Expected funding expense in savings category, got %s", result.Expense.Category)
	}
	if result.Expense.GoalID == nil || *result.Expense.GoalID != goal.ID {
		t.Error("Expected funding expense linked to the goal")
	}
	if result.Expense.Notes == nil || *result.Expense.Notes != domain.GoalNotePrefix+"Vacaciones" {
		t.Errorf("Expected notes convention on funding expense, got %v", result.Expense.Notes)
	}
	if !result.Expense.Amount.Equal(dec("200")) {
		t.Errorf("Expected expense amount 200, got %s", result.Expense.Amount)
	}
}

func TestAddFunds_NonPositiveAmount(t *testing.T) {
	goalRepo := testutil.NewMockGoalRepository()
	goalService := NewGoalService(goalRepo, testutil.NewMockExpenseRepository())

	userID := uuid.New()
	goal := &domain.Goal{UserID: userID, Title: "Goal", TargetAmount: dec("1000"), CurrentAmount: dec("100")}
	goalRepo.AddGoal(goal)

	_, err := goalService.AddFunds(userID, goal.ID, decimal.Zero)
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}

	stored, _ := goalRepo.GetByID(userID, goal.ID)
	if !stored.CurrentAmount.Equal(dec("100")) {
		t.Errorf("Expected goal untouched after rejection, got %s", stored.CurrentAmount)
	}
}

func TestAddFunds_GoalNotFound(t *testing.T) {
	goalService := NewGoalService(testutil.NewMockGoalRepository(), testutil.NewMockExpenseRepository())

	_, err := goalService.AddFunds(uuid.New(), uuid.New(), dec("50"))
	if !errors.Is(err, domain.ErrGoalNotFound) {
		t.Errorf("Expected ErrGoalNotFound, got %v", err)
	}
}

func TestAddFunds_ExpenseFailureCompensatesIncrement(t *testing.T) {
	goalRepo := testutil.NewMockGoalRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	goalService := NewGoalService(goalRepo, expenseRepo)

	userID := uuid.New()
	goal := &domain.Goal{UserID: userID, Title: "Goal", TargetAmount: dec("1000"), CurrentAmount: dec("100")}
	goalRepo.AddGoal(goal)

	expenseRepo.CreateFn = func(expense *domain.Expense) (*domain.Expense, error) {
		return nil, errors.New("write failed")
	}

	_, err := goalService.AddFunds(userID, goal.ID, dec("200"))
	if !errors.Is(err, domain.ErrFundingFailed) {
		t.Fatalf("Expected ErrFundingFailed, got %v", err)
	}

	stored, _ := goalRepo.GetByID(userID, goal.ID)
	if !stored.CurrentAmount.Equal(dec("100")) {
		t.Errorf("Expected increment rolled back to 100, got %s", stored.CurrentAmount)
	}
}

func TestDeleteGoal_LeavesFundingExpenses(t *testing.T) {
	goalRepo := testutil.NewMockGoalRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	goalService := NewGoalService(goalRepo, expenseRepo)

	userID := uuid.New()
	goal := &domain.Goal{UserID: userID, Title: "Goal", TargetAmount: dec("1000")}
	goalRepo.AddGoal(goal)

	result, err := goalService.AddFunds(userID, goal.ID, dec("50"))
	if err != nil {
		t.Fatalf("Expected no error funding goal, got %v", err)
	}

	if err := goalService.DeleteGoal(userID, goal.ID); err != nil {
		t.Fatalf("Expected no error deleting goal, got %v", err)
	}

	// The funding expense keeps its amount so totals stay truthful
	expense, err := expenseRepo.GetByID(userID, result.Expense.ID)
	if err != nil {
		t.Fatalf("Expected funding expense to survive goal deletion, got %v", err)
	}
	if !expense.Amount.Equal(dec("50")) {
		t.Errorf("Expected surviving expense amount 50, got %s", expense.Amount)
	}
}

func TestUpdateGoal_DoesNotTouchCurrentAmount(t *testing.T) {
	goalRepo := testutil.NewMockGoalRepository()
	goalService := NewGoalService(goalRepo, testutil.NewMockExpenseRepository())

	userID := uuid.New()
	goal := &domain.Goal{UserID: userID, Title: "Goal", TargetAmount: dec("1000"), CurrentAmount: dec("400")}
	goalRepo.AddGoal(goal)

	updated, err := goalService.UpdateGoal(userID, goal.ID, UpdateGoalInput{
		Title:        "Renamed",
		TargetAmount: dec("2000"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !updated.CurrentAmount.Equal(dec("400")) {
		t.Errorf("Expected current amount untouched at 400, got %s", updated.CurrentAmount)
	}
	if updated.Title != "Renamed" {
		t.Errorf("Expected title 'Renamed', got %q", updated.Title)
	}
}
