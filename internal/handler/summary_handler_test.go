package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/centavo-app/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func newSummaryHandler() (*SummaryHandler, *testutil.MockExpenseRepository, *testutil.MockIncomeRepository) {
	expenseRepo := testutil.NewMockExpenseRepository()
	incomeRepo := testutil.NewMockIncomeRepository()
	summaryService := service.NewSummaryService(expenseRepo, incomeRepo)
	return NewSummaryHandler(summaryService), expenseRepo, incomeRepo
}

func TestGetSummary_Success(t *testing.T) {
	e := echo.New()
	handler, expenseRepo, incomeRepo := newSummaryHandler()
	userID := uuid.New()

	incomeRepo.AddIncome(&domain.Income{
		ID:          uuid.New(),
		UserID:      userID,
		Description: "Salario",
		Amount:      decimal.NewFromInt(2000),
		Category:    "salary",
		Date:        time.Now(),
	})
	expenseRepo.AddExpense(&domain.Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Description: "Alquiler",
		Amount:      decimal.NewFromInt(800),
		Category:    "housing",
		Date:        time.Now(),
	})
	expenseRepo.AddExpense(&domain.Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Description: "Supermercado",
		Amount:      decimal.NewFromInt(200),
		Category:    "food",
		Date:        time.Now(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupUserContext(c, userID)

	err := handler.GetSummary(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.TotalIncome != "2000.00" {
		t.Errorf("Expected total income '2000.00', got %s", response.TotalIncome)
	}

	if response.TotalExpenses != "1000.00" {
		t.Errorf("Expected total expenses '1000.00', got %s", response.TotalExpenses)
	}

	if response.Balance != "1000.00" {
		t.Errorf("Expected balance '1000.00', got %s", response.Balance)
	}

	if len(response.CategoryBreakdown) != 2 {
		t.Fatalf("Expected 2 breakdown entries, got %d", len(response.CategoryBreakdown))
	}

	// Largest category first
	if response.CategoryBreakdown[0].Name != "Vivienda" {
		t.Errorf("Expected 'Vivienda' first, got %s", response.CategoryBreakdown[0].Name)
	}
	if response.CategoryBreakdown[0].Percent != "80.00" {
		t.Errorf("Expected percent '80.00', got %s", response.CategoryBreakdown[0].Percent)
	}

	if len(response.MonthlyExpenses) != 6 {
		t.Errorf("Expected 6 histogram bars, got %d", len(response.MonthlyExpenses))
	}
}

func TestGetSummary_MonthFilter(t *testing.T) {
	e := echo.New()
	handler, expenseRepo, incomeRepo := newSummaryHandler()
	userID := uuid.New()

	incomeRepo.AddIncome(&domain.Income{
		ID:          uuid.New(),
		UserID:      userID,
		Description: "Salario enero",
		Amount:      decimal.NewFromInt(1500),
		Category:    "salary",
		Date:        time.Date(2026, time.January, 15, 12, 0, 0, 0, time.Local),
	})
	expenseRepo.AddExpense(&domain.Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Description: "Gasto febrero",
		Amount:      decimal.NewFromInt(100),
		Category:    "food",
		Date:        time.Date(2026, time.February, 3, 12, 0, 0, 0, time.Local),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary?month=2026-01", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupUserContext(c, userID)

	err := handler.GetSummary(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.TotalIncome != "1500.00" {
		t.Errorf("Expected total income '1500.00', got %s", response.TotalIncome)
	}

	if response.TotalExpenses != "0.00" {
		t.Errorf("Expected total expenses '0.00', got %s", response.TotalExpenses)
	}
}

func TestGetSummary_InvalidMonth(t *testing.T) {
	e := echo.New()
	handler, _, _ := newSummaryHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary?month=enero", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupUserContext(c, uuid.New())

	err := handler.GetSummary(c)
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

	if len(problemDetails.Errors) != 1 || problemDetails.Errors[0].Field != "month" {
		t.Error("Expected validation error for 'month' field")
	}
}
