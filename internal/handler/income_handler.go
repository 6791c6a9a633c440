package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/middleware"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/centavo-app/centavo-backend/internal/util"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// IncomeHandler handles income-related HTTP requests
type IncomeHandler struct {
	incomeService *service.IncomeService
}

// NewIncomeHandler creates a new IncomeHandler
func NewIncomeHandler(incomeService *service.IncomeService) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

// IncomeRequest represents the create/update income request body
type IncomeRequest struct {
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// IncomeResponse represents an income record in API responses
type IncomeResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func incomeValidationResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrDescriptionRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description is required"},
		})
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be greater than zero"},
		})
	case errors.Is(err, domain.ErrInvalidCategory):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Unknown income category"},
		})
	case errors.Is(err, domain.ErrNotesTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "notes", Message: "Notes must be 1000 characters or less"},
		})
	}
	return nil
}

// CreateIncome handles POST /api/v1/incomes
func (h *IncomeHandler) CreateIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req IncomeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var date *time.Time
	if req.Date != "" {
		parsed, derr := parseDate(req.Date)
		if derr != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be RFC 3339 or YYYY-MM-DD"},
			})
		}
		date = &parsed
	}

	income, err := h.incomeService.CreateIncome(userID, service.CreateIncomeInput{
		Description: req.Description,
		Amount:      amount,
		Category:    req.Category,
		Date:        date,
		Notes:       req.Notes,
	})
	if err != nil {
		if resp := incomeValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create income")
		return NewInternalError(c, "Failed to create income")
	}

	log.Info().Str("user_id", userID.String()).Str("income_id", income.ID.String()).Msg("Income created")
	return c.JSON(http.StatusCreated, toIncomeResponse(income))
}

// GetIncomes handles GET /api/v1/incomes?month=YYYY-MM
func (h *IncomeHandler) GetIncomes(c echo.Context) error {
	userID := middleware.GetUserID(c)

	monthKey := c.QueryParam("month")
	if monthKey == "" {
		monthKey = util.MonthKeyAll
	}

	incomes, err := h.incomeService.GetIncomes(userID, monthKey)
	if err != nil {
		if errors.Is(err, util.ErrInvalidMonthKey) {
			return NewValidationError(c, "Invalid month filter", []ValidationError{
				{Field: "month", Message: "Must be YYYY-MM or 'all'"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get incomes")
		return NewInternalError(c, "Failed to get incomes")
	}

	response := make([]IncomeResponse, len(incomes))
	for i, income := range incomes {
		response[i] = toIncomeResponse(income)
	}
	return c.JSON(http.StatusOK, response)
}

// GetIncome handles GET /api/v1/incomes/:id
func (h *IncomeHandler) GetIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid income ID", nil)
	}

	income, err := h.incomeService.GetIncomeByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrIncomeNotFound) {
			return NewNotFoundError(c, "Income not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get income")
		return NewInternalError(c, "Failed to get income")
	}
	return c.JSON(http.StatusOK, toIncomeResponse(income))
}

// UpdateIncome handles PUT /api/v1/incomes/:id
func (h *IncomeHandler) UpdateIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid income ID", nil)
	}

	var req IncomeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be RFC 3339 or YYYY-MM-DD"},
		})
	}

	income, err := h.incomeService.UpdateIncome(userID, id, service.UpdateIncomeInput{
		Description: req.Description,
		Amount:      amount,
		Category:    req.Category,
		Date:        date,
		Notes:       req.Notes,
	})
	if err != nil {
		if resp := incomeValidationResponse(c, err); resp != nil {
			return resp
		}
		if errors.Is(err, domain.ErrIncomeNotFound) {
			return NewNotFoundError(c, "Income not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("income_id", id.String()).Msg("Failed to update income")
		return NewInternalError(c, "Failed to update income")
	}

	log.Info().Str("user_id", userID.String()).Str("income_id", id.String()).Msg("Income updated")
	return c.JSON(http.StatusOK, toIncomeResponse(income))
}

// DeleteIncome handles DELETE /api/v1/incomes/:id
func (h *IncomeHandler) DeleteIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid income ID", nil)
	}

	if err := h.incomeService.DeleteIncome(userID, id); err != nil {
		if errors.Is(err, domain.ErrIncomeNotFound) {
			return NewNotFoundError(c, "Income not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("income_id", id.String()).Msg("Failed to delete income")
		return NewInternalError(c, "Failed to delete income")
	}

	log.Info().Str("user_id", userID.String()).Str("income_id", id.String()).Msg("Income deleted")
	return c.NoContent(http.StatusNoContent)
}

func toIncomeResponse(income *domain.Income) IncomeResponse {
	return IncomeResponse{
		ID:          income.ID.String(),
		Description: income.Description,
		Amount:      income.Amount.StringFixed(2),
		Category:    income.Category,
		Date:        income.Date.Format(time.RFC3339),
		Notes:       income.Notes,
		CreatedAt:   income.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   income.UpdatedAt.Format(time.RFC3339),
	}
}
