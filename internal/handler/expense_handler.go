package handler

import (
	"errors"
	"io"
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

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
	receiptService *service.ReceiptService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService, receiptService *service.ReceiptService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		receiptService: receiptService,
	}
}

// ExpenseRequest represents the create/update expense request body
type ExpenseRequest struct {
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	GoalID      *string `json:"goalId,omitempty"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Notes       *string `json:"notes,omitempty"`
	GoalID      *string `json:"goalId,omitempty"`
	HasReceipt  bool    `json:"hasReceipt"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// parseDate accepts RFC 3339 or a bare calendar date
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, time.Local)
}

// parseExpenseRequest converts the wire format into typed values
func parseExpenseRequest(c echo.Context, req *ExpenseRequest) (amount decimal.Decimal, date *time.Time, goalID *uuid.UUID, err error) {
	amount, aerr := decimal.NewFromString(req.Amount)
	if aerr != nil {
		return amount, nil, nil, NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	if req.Date != "" {
		parsed, derr := parseDate(req.Date)
		if derr != nil {
			return amount, nil, nil, NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be RFC 3339 or YYYY-MM-DD"},
			})
		}
		date = &parsed
	}

	if req.GoalID != nil && *req.GoalID != "" {
		parsed, gerr := uuid.Parse(*req.GoalID)
		if gerr != nil {
			return amount, nil, nil, NewValidationError(c, "Invalid goal ID", []ValidationError{
				{Field: "goalId", Message: "Must be a valid UUID"},
			})
		}
		goalID = &parsed
	}

	return amount, date, goalID, nil
}

// expenseValidationResponse maps domain validation errors, nil if unmatched
func expenseValidationResponse(c echo.Context, err error) error {
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
			{Field: "category", Message: "Unknown expense category"},
		})
	case errors.Is(err, domain.ErrNotesTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "notes", Message: "Notes must be 1000 characters or less"},
		})
	}
	return nil
}

// CreateExpense handles POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, date, goalID, perr := parseExpenseRequest(c, &req)
	if perr != nil {
		return perr
	}

	expense, err := h.expenseService.CreateExpense(userID, service.CreateExpenseInput{
		Description: req.Description,
		Amount:      amount,
		Category:    req.Category,
		Date:        date,
		Notes:       req.Notes,
		GoalID:      goalID,
	})
	if err != nil {
		if resp := expenseValidationResponse(c, err); resp != nil {
			return resp
		}
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "goalId", Message: "Goal does not exist"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create expense")
		return NewInternalError(c, "Failed to create expense")
	}

	log.Info().Str("user_id", userID.String()).Str("expense_id", expense.ID.String()).Msg("Expense created")
	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// GetExpenses handles GET /api/v1/expenses?month=YYYY-MM
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	userID := middleware.GetUserID(c)

	monthKey := c.QueryParam("month")
	if monthKey == "" {
		monthKey = util.MonthKeyAll
	}

	expenses, err := h.expenseService.GetExpenses(userID, monthKey)
	if err != nil {
		if errors.Is(err, util.ErrInvalidMonthKey) {
			return NewValidationError(c, "Invalid month filter", []ValidationError{
				{Field: "month", Message: "Must be YYYY-MM or 'all'"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get expenses")
		return NewInternalError(c, "Failed to get expenses")
	}

	response := make([]ExpenseResponse, len(expenses))
	for i, expense := range expenses {
		response[i] = toExpenseResponse(expense)
	}
	return c.JSON(http.StatusOK, response)
}

// GetExpense handles GET /api/v1/expenses/:id
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.expenseService.GetExpenseByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get expense")
		return NewInternalError(c, "Failed to get expense")
	}
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// UpdateExpense handles PUT /api/v1/expenses/:id
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, date, _, perr := parseExpenseRequest(c, &req)
	if perr != nil {
		return perr
	}
	if date == nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Date is required"},
		})
	}

	expense, err := h.expenseService.UpdateExpense(userID, id, service.UpdateExpenseInput{
		Description: req.Description,
		Amount:      amount,
		Category:    req.Category,
		Date:        *date,
		Notes:       req.Notes,
	})
	if err != nil {
		if resp := expenseValidationResponse(c, err); resp != nil {
			return resp
		}
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("expense_id", id.String()).Msg("Failed to update expense")
		return NewInternalError(c, "Failed to update expense")
	}

	log.Info().Str("user_id", userID.String()).Str("expense_id", id.String()).Msg("Expense updated")
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// DeleteExpense handles DELETE /api/v1/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if err := h.expenseService.DeleteExpense(userID, id); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("expense_id", id.String()).Msg("Failed to delete expense")
		return NewInternalError(c, "Failed to delete expense")
	}

	log.Info().Str("user_id", userID.String()).Str("expense_id", id.String()).Msg("Expense deleted")
	return c.NoContent(http.StatusNoContent)
}

// UploadReceipt handles POST /api/v1/expenses/:id/receipt
func (h *ExpenseHandler) UploadReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	file, err := c.FormFile("receipt")
	if err != nil {
		return NewValidationError(c, "Missing receipt file", []ValidationError{
			{Field: "receipt", Message: "A file upload named 'receipt' is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		return NewValidationError(c, "Could not read uploaded file", nil)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return NewValidationError(c, "Could not read uploaded file", nil)
	}

	expense, err := h.receiptService.UploadReceipt(c.Request().Context(), userID, id, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReceiptStorageNotConfigured):
			return NewForbiddenError(c, "Receipt storage is not configured")
		case errors.Is(err, domain.ErrExpenseNotFound):
			return NewNotFoundError(c, "Expense not found")
		case errors.Is(err, service.ErrReceiptTooLarge),
			errors.Is(err, service.ErrInvalidReceiptFormat),
			errors.Is(err, service.ErrReceiptTooSmall),
			errors.Is(err, service.ErrInvalidReceiptData):
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("expense_id", id.String()).Msg("Failed to upload receipt")
		return NewInternalError(c, "Failed to upload receipt")
	}

	log.Info().Str("user_id", userID.String()).Str("expense_id", id.String()).Msg("Receipt uploaded")
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// GetReceipt handles GET /api/v1/expenses/:id/receipt
func (h *ExpenseHandler) GetReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	urls, err := h.receiptService.GetReceiptURLs(c.Request().Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReceiptStorageNotConfigured):
			return NewForbiddenError(c, "Receipt storage is not configured")
		case errors.Is(err, domain.ErrExpenseNotFound):
			return NewNotFoundError(c, "Expense not found")
		case errors.Is(err, domain.ErrNotFound):
			return NewNotFoundError(c, "Expense has no receipt")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("expense_id", id.String()).Msg("Failed to get receipt URLs")
		return NewInternalError(c, "Failed to get receipt")
	}
	return c.JSON(http.StatusOK, urls)
}

// DeleteReceipt handles DELETE /api/v1/expenses/:id/receipt
func (h *ExpenseHandler) DeleteReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.receiptService.DeleteReceipt(c.Request().Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReceiptStorageNotConfigured):
			return NewForbiddenError(c, "Receipt storage is not configured")
		case errors.Is(err, domain.ErrExpenseNotFound):
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("expense_id", id.String()).Msg("Failed to delete receipt")
		return NewInternalError(c, "Failed to delete receipt")
	}

	log.Info().Str("user_id", userID.String()).Str("expense_id", id.String()).Msg("Receipt deleted")
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

func toExpenseResponse(expense *domain.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:          expense.ID.String(),
		Description: expense.Description,
		Amount:      expense.Amount.StringFixed(2),
		Category:    expense.Category,
		Date:        expense.Date.Format(time.RFC3339),
		Notes:       expense.Notes,
		HasReceipt:  expense.ReceiptPath != nil,
		CreatedAt:   expense.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   expense.UpdatedAt.Format(time.RFC3339),
	}
	if expense.GoalID != nil {
		goalID := expense.GoalID.String()
		resp.GoalID = &goalID
	}
	return resp
}
