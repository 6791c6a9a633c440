package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/centavo-app/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func newIncomeHandler() (*IncomeHandler, *testutil.MockIncomeRepository) {
	incomeRepo := testutil.NewMockIncomeRepository()
	incomeService := service.NewIncomeService(incomeRepo)
	return NewIncomeHandler(incomeService), incomeRepo
}

func TestCreateIncome_Success(t *testing.T) {
	e := echo.New()
	handler, _ := newIncomeHandler()

	reqBody := `{"description": "Salario agosto", "amount": "2500.00", "category": "salary"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/incomes", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupUserContext(c, uuid.New())

	err := handler.CreateIncome(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response IncomeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Description != "Salario agosto" {
		t.Errorf("Expected description 'Salario agosto', got %s", response.Description)
	}

	if response.Amount != "2500.00" {
		t.Errorf("Expected amount '2500.00', got %s", response.Amount)
	}

	if response.Category != "salary" {
		t.Errorf("Expected category 'salary', got %s", response.Category)
	}
}

func TestCreateIncome_ExpenseCategoryRejected(t *testing.T) {
	e := echo.New()
	handler, _ := newIncomeHandler()

	reqBody := `{"description": "Mal categorizado", "amount": "100.00", "category": "food"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/incomes", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupUserContext(c, uuid.New())

	err := handler.CreateIncome(c)
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

	if len(problemDetails.Errors) != 1 || problemDetails.Errors[0].Field != "category" {
		t.Error("Expected validation error for 'category' field")
	}
}

func TestUpdateIncome_NotFound(t *testing.T) {
	e := echo.New()
	handler, _ := newIncomeHandler()
	incomeID := uuid.New()

	reqBody := `{"description": "Salario", "amount": "2500.00", "category": "salary", "date": "2026-08-01"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/incomes/"+incomeID.String(), strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(incomeID.String())

	setupUserContext(c, uuid.New())

	err := handler.UpdateIncome(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestDeleteIncome_ScopedToUser(t *testing.T) {
	e := echo.New()
	handler, incomeRepo := newIncomeHandler()
	ownerID := uuid.New()
	incomeID := uuid.New()

	incomeRepo.AddIncome(&domain.Income{
		ID:          incomeID,
		UserID:      ownerID,
		Description: "Salario",
		Amount:      decimal.NewFromInt(2500),
		Category:    "salary",
		Date:        time.Now(),
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/incomes/"+incomeID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(incomeID.String())

	// Another user must not be able to delete it
	setupUserContext(c, uuid.New())

	err := handler.DeleteIncome(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}

	if _, err := incomeRepo.GetByID(ownerID, incomeID); err != nil {
		t.Error("Expected the income record to survive a foreign delete")
	}
}
