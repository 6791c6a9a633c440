package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/middleware"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// GoalHandler handles savings goal HTTP requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// GoalRequest represents the create/update goal request body
type GoalRequest struct {
	Title         string  `json:"title"`
	Description   *string `json:"description,omitempty"`
	TargetAmount  string  `json:"targetAmount"`
	CurrentAmount string  `json:"currentAmount,omitempty"`
	Deadline      string  `json:"deadline,omitempty"`
}

// AddFundsRequest represents the add funds request body
type AddFundsRequest struct {
	Amount string `json:"amount"`
}

// GoalResponse represents a goal in API responses
type GoalResponse struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   *string `json:"description,omitempty"`
	TargetAmount  string  `json:"targetAmount"`
	CurrentAmount string  `json:"currentAmount"`
	Progress      string  `json:"progress"`
	Deadline      string  `json:"deadline,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// AddFundsResponse represents the result of funding a goal
type AddFundsResponse struct {
	Goal    GoalResponse    `json:"goal"`
	Expense ExpenseResponse `json:"expense"`
}

func goalValidationResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrTitleRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "title", Message: "Title is required"},
		})
	case errors.Is(err, domain.ErrTitleTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "title", Message: "Title must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidTargetAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "targetAmount", Message: "Target amount must be greater than zero"},
		})
	}
	return nil
}

// CreateGoal handles POST /api/v1/goals
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	target, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		return NewValidationError(c, "Invalid target amount", []ValidationError{
			{Field: "targetAmount", Message: "Must be a valid decimal number"},
		})
	}

	current := decimal.Zero
	if req.CurrentAmount != "" {
		current, err = decimal.NewFromString(req.CurrentAmount)
		if err != nil {
			return NewValidationError(c, "Invalid current amount", []ValidationError{
				{Field: "currentAmount", Message: "Must be a valid decimal number"},
			})
		}
	}

	goal, err := h.goalService.CreateGoal(userID, service.CreateGoalInput{
		Title:         req.Title,
		Description:   req.Description,
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      req.Deadline,
	})
	if err != nil {
		if resp := goalValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create goal")
		return NewInternalError(c, "Failed to create goal")
	}

	log.Info().Str("user_id", userID.String()).Str("goal_id", goal.ID.String()).Str("title", goal.Title).Msg("Goal created")
	return c.JSON(http.StatusCreated, toGoalResponse(goal))
}

// GetGoals handles GET /api/v1/goals
func (h *GoalHandler) GetGoals(c echo.Context) error {
	userID := middleware.GetUserID(c)

	goals, err := h.goalService.GetGoals(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get goals")
		return NewInternalError(c, "Failed to get goals")
	}

	response := make([]GoalResponse, len(goals))
	for i, goal := range goals {
		response[i] = toGoalResponse(goal)
	}
	return c.JSON(http.StatusOK, response)
}

// GetGoal handles GET /api/v1/goals/:id
func (h *GoalHandler) GetGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	goal, err := h.goalService.GetGoalByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get goal")
		return NewInternalError(c, "Failed to get goal")
	}
	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// UpdateGoal handles PUT /api/v1/goals/:id
func (h *GoalHandler) UpdateGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	target, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		return NewValidationError(c, "Invalid target amount", []ValidationError{
			{Field: "targetAmount", Message: "Must be a valid decimal number"},
		})
	}

	goal, err := h.goalService.UpdateGoal(userID, id, service.UpdateGoalInput{
		Title:        req.Title,
		Description:  req.Description,
		TargetAmount: target,
		Deadline:     req.Deadline,
	})
	if err != nil {
		if resp := goalValidationResponse(c, err); resp != nil {
			return resp
		}
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("goal_id", id.String()).Msg("Failed to update goal")
		return NewInternalError(c, "Failed to update goal")
	}

	log.Info().Str("user_id", userID.String()).Str("goal_id", id.String()).Msg("Goal updated")
	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// DeleteGoal handles DELETE /api/v1/goals/:id
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	if err := h.goalService.DeleteGoal(userID, id); err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("goal_id", id.String()).Msg("Failed to delete goal")
		return NewInternalError(c, "Failed to delete goal")
	}

	log.Info().Str("user_id", userID.String()).Str("goal_id", id.String()).Msg("Goal deleted")
	return c.NoContent(http.StatusNoContent)
}

// AddFunds handles POST /api/v1/goals/:id/funds
func (h *GoalHandler) AddFunds(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	var req AddFundsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	result, err := h.goalService.AddFunds(userID, id, amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be greater than zero"},
			})
		case errors.Is(err, domain.ErrGoalNotFound):
			return NewNotFoundError(c, "Goal not found")
		case errors.Is(err, domain.ErrFundingFailed):
			return NewConflictError(c, "Funding could not be recorded; the goal was left unchanged")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("goal_id", id.String()).Msg("Failed to add funds")
		return NewInternalError(c, "Failed to add funds")
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("goal_id", id.String()).
		Str("amount", amount.StringFixed(2)).
		Msg("Funds added to goal")

	return c.JSON(http.StatusOK, AddFundsResponse{
		Goal:    toGoalResponse(result.Goal),
		Expense: toExpenseResponse(result.Expense),
	})
}

func toGoalResponse(goal *domain.Goal) GoalResponse {
	return GoalResponse{
		ID:            goal.ID.String(),
		Title:         goal.Title,
		Description:   goal.Description,
		TargetAmount:  goal.TargetAmount.StringFixed(2),
		CurrentAmount: goal.CurrentAmount.StringFixed(2),
		Progress:      goal.Progress().StringFixed(2),
		Deadline:      goal.Deadline,
		CreatedAt:     goal.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     goal.UpdatedAt.Format(time.RFC3339),
	}
}
