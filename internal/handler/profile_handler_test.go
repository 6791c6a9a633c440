package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/centavo-app/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newProfileHandler(t *testing.T) (*ProfileHandler, uuid.UUID) {
	t.Helper()
	userRepo := testutil.NewMockUserRepository()
	settingsRepo := testutil.NewMockSettingsRepository()

	userID := uuid.New()
	name := "Usuario de Prueba"
	userRepo.AddUser(&domain.User{
		ID:      userID,
		Subject: "auth0|profile",
		Email:   "perfil@example.com",
		Name:    &name,
	})
	if _, err := settingsRepo.Save(domain.DefaultSettings(userID)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	profileService := service.NewProfileService(userRepo, settingsRepo)
	return NewProfileHandler(profileService), userID
}

func TestGetProfile_Success(t *testing.T) {
	e := echo.New()
	handler, userID := newProfileHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupUserContext(c, userID)

	err := handler.GetProfile(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response ProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.User.Email != "perfil@example.com" {
		t.Errorf("Expected email 'perfil@example.com', got %s", response.User.Email)
	}

	if response.Settings.Currency.Code != domain.DefaultCurrency.Code {
		t.Errorf("Expected currency %s, got %s", domain.DefaultCurrency.Code, response.Settings.Currency.Code)
	}
}

func TestGetProfile_UnknownUser(t *testing.T) {
	e := echo.New()
	handler, _ := newProfileHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupUserContext(c, uuid.New())

	err := handler.GetProfile(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestUpdateProfile_ChangeCurrency(t *testing.T) {
	e := echo.New()
	handler, userID := newProfileHandler(t)

	reqBody := `{"currency": "eur"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupUserContext(c, userID)

	err := handler.UpdateProfile(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response ProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Settings.Currency.Code != "EUR" {
		t.Errorf("Expected currency 'EUR', got %s", response.Settings.Currency.Code)
	}

	if response.Settings.Currency.Symbol != "€" {
		t.Errorf("Expected symbol '€', got %s", response.Settings.Currency.Symbol)
	}
}

func TestUpdateProfile_UnknownCurrency(t *testing.T) {
	e := echo.New()
	handler, userID := newProfileHandler(t)

	reqBody := `{"currency": "XXX"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupUserContext(c, userID)

	err := handler.UpdateProfile(c)
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

	if len(problemDetails.Errors) != 1 || problemDetails.Errors[0].Field != "currency" {
		t.Error("Expected validation error for 'currency' field")
	}
}

func TestUpdateProfile_EmptyName(t *testing.T) {
	e := echo.New()
	handler, userID := newProfileHandler(t)

	reqBody := `{"name": "  "}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupUserContext(c, userID)

	err := handler.UpdateProfile(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetCurrencies_Public(t *testing.T) {
	e := echo.New()
	handler, _ := newProfileHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/currencies", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.GetCurrencies(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response []CurrencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(response) == 0 {
		t.Fatal("Expected at least one currency")
	}

	found := false
	for _, currency := range response {
		if currency.Code == domain.DefaultCurrency.Code {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected %s to be listed", domain.DefaultCurrency.Code)
	}
}
