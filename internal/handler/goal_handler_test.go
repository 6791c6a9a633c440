package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/centavo-app/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func newGoalHandler() (*GoalHandler, *testutil.MockGoalRepository, *testutil.MockExpenseRepository) {
	goalRepo := testutil.NewMockGoalRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	goalService := service.NewGoalService(goalRepo, expenseRepo)
	return NewGoalHandler(goalService), goalRepo, expenseRepo
}

func TestCreateGoal_Success(t *testing.T) {
	e := echo.New()
	handler, _, _ := newGoalHandler()

	reqBody := `{"title": "Vacaciones", "targetAmount": "1500.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/goals", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupUserContext(c, uuid.New())

	err := handler.CreateGoal(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response GoalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Title != "Vacaciones" {
		t.Errorf("Expected title 'Vacaciones', got %s", response.Title)
	}

	if response.TargetAmount != "1500.00" {
		t.Errorf("Expected target '1500.00', got %s", response.TargetAmount)
	}

	if response.CurrentAmount != "0.00" {
		t.Errorf("Expected current '0.00', got %s", response.CurrentAmount)
	}

	if response.Progress != "0.00" {
		t.Errorf("Expected progress '0.00', got %s", response.Progress)
	}
}

func TestCreateGoal_MissingTitle(t *testing.T) {
	e := echo.New()
	handler, _, _ := newGoalHandler()

	reqBody := `{"title": "   ", "targetAmount": "1500.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/goals", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupUserContext(c, uuid.New())

	err := handler.CreateGoal(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problemDetails ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problemDetails); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(problemDetails.Errors) != 1 || problemDetails.Errors[0].Field != "title" {
		t.Error("Expected validation error for 'title' field")
	}
}

func TestCreateGoal_TitleTooLong(t *testing.T) {
	e := echo.New()
	handler, _, _ := newGoalHandler()

	title := strings.Repeat("a", domain.MaxTitleLength+1)
	reqBody := `{"title": "` + title + `", "targetAmount": "1500.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/goals", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupUserContext(c, uuid.New())

	err := handler.CreateGoal(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problemDetails ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problemDetails); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(problemDetails.Errors) != 1 || problemDetails.Errors[0].Field != "title" {
		t.Error("Expected validation error for 'title' field")
	}
}

func TestCreateGoal_InvalidTarget(t *testing.T) {
	e := echo.New()
	handler, _, _ := newGoalHandler()

	reqBody := `{"title": "Moto", "targetAmount": "-5.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/goals", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupUserContext(c, uuid.New())

	err := handler.CreateGoal(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problemDetails ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problemDetails); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(problemDetails.Errors) != 1 || problemDetails.Errors[0].Field != "targetAmount" {
		t.Error("Expected validation error for 'targetAmount' field")
	}
}

func TestAddFunds_Success(t *testing.T) {
	e := echo.New()
	handler, goalRepo, expenseRepo := newGoalHandler()
	userID := uuid.New()
	goalID := uuid.New()

	goalRepo.AddGoal(&domain.Goal{
		ID:            goalID,
		UserID:        userID,
		Title:         "Vacaciones",
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(100),
	})

	reqBody := `{"amount": "200.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/goals/"+goalID.String()+"/funds", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(goalID.String())

	setupUserContext(c, userID)

	err := handler.AddFunds(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response AddFundsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Goal.CurrentAmount != "300.00" {
		t.Errorf("Expected current '300.00', got %s", response.Goal.CurrentAmount)
	}

	if response.Expense.Category != string(domain.CategorySavings) {
		t.Errorf("Expected expense category %s, got %s", domain.CategorySavings, response.Expense.Category)
	}

	if response.Expense.GoalID == nil || *response.Expense.GoalID != goalID.String() {
		t.Error("Expected funding expense to be linked to the goal")
	}

	expenses, err := expenseRepo.GetByUser(userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(expenses) != 1 {
		t.Errorf("Expected 1 funding expense, got %d", len(expenses))
	}
}

func TestAddFunds_NonPositiveAmount(t *testing.T) {
	e := echo.New()
	handler, goalRepo, _ := newGoalHandler()
	userID := uuid.New()
	goalID := uuid.New()

	goalRepo.AddGoal(&domain.Goal{
		ID:            goalID,
		UserID:        userID,
		Title:         "Vacaciones",
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(100),
	})

	reqBody := `{"amount": "0.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/goals/"+goalID.String()+"/funds", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(goalID.String())

	setupUserContext(c, userID)

	err := handler.AddFunds(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestAddFunds_GoalNotFound(t *testing.T) {
	e := echo.New()
	handler, _, _ := newGoalHandler()
	goalID := uuid.New()

	reqBody := `{"amount": "200.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/goals/"+goalID.String()+"/funds", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(goalID.String())

	setupUserContext(c, uuid.New())

	err := handler.AddFunds(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestAddFunds_ExpenseFailureConflict(t *testing.T) {
	e := echo.New()
	handler, goalRepo, expenseRepo := newGoalHandler()
	userID := uuid.New()
	goalID := uuid.New()

	goalRepo.AddGoal(&domain.Goal{
		ID:            goalID,
		UserID:        userID,
		Title:         "Vacaciones",
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(100),
	})
	expenseRepo.CreateFn = func(expense *domain.Expense) (*domain.Expense, error) {
		return nil, errors.New("write failed")
	}

	reqBody := `{"amount": "200.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/goals/"+goalID.String()+"/funds", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(goalID.String())

	setupUserContext(c, userID)

	err := handler.AddFunds(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}

	goal, err := goalRepo.GetByID(userID, goalID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !goal.CurrentAmount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected goal rolled back to 100, got %s", goal.CurrentAmount)
	}
}

func TestDeleteGoal_NotFound(t *testing.T) {
	e := echo.New()
	handler, _, _ := newGoalHandler()
	goalID := uuid.New()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/goals/"+goalID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(goalID.String())

	setupUserContext(c, uuid.New())

	err := handler.DeleteGoal(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
