package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/middleware"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/centavo-app/centavo-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetRuleHandler handles budget rule HTTP requests
type BudgetRuleHandler struct {
	ruleService *service.BudgetRuleService
}

// NewBudgetRuleHandler creates a new BudgetRuleHandler
func NewBudgetRuleHandler(ruleService *service.BudgetRuleService) *BudgetRuleHandler {
	return &BudgetRuleHandler{ruleService: ruleService}
}

// RuleCategoryRequest represents one allocation slice in a rule request
type RuleCategoryRequest struct {
	Name              string   `json:"name"`
	Percentage        string   `json:"percentage"`
	Color             string   `json:"color,omitempty"`
	ExpenseCategories []string `json:"expenseCategories,omitempty"`
}

// BudgetRuleRequest represents the create/update rule request body
type BudgetRuleRequest struct {
	Name        string                `json:"name"`
	Description *string               `json:"description,omitempty"`
	Categories  []RuleCategoryRequest `json:"categories"`
}

// SetActiveRuleRequest represents the active rule selection body
type SetActiveRuleRequest struct {
	RuleID string `json:"ruleId"`
}

// RuleCategoryResponse represents one allocation slice of a rule
type RuleCategoryResponse struct {
	Name              string   `json:"name"`
	Percentage        string   `json:"percentage"`
	Color             string   `json:"color,omitempty"`
	ExpenseCategories []string `json:"expenseCategories,omitempty"`
}

// BudgetRuleResponse represents a rule in API responses
type BudgetRuleResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description *string                `json:"description,omitempty"`
	Categories  []RuleCategoryResponse `json:"categories"`
	IsDefault   bool                   `json:"isDefault"`
	CreatedAt   string                 `json:"createdAt"`
	UpdatedAt   string                 `json:"updatedAt"`
}

// RuleCategoryValueResponse represents an evaluated allocation slice
type RuleCategoryValueResponse struct {
	Name       string `json:"name"`
	Percentage string `json:"percentage"`
	Color      string `json:"color,omitempty"`
	Target     string `json:"target"`
	Current    string `json:"current"`
	Percent    string `json:"percent"`
	OverTarget bool   `json:"overTarget"`
}

// RuleEvaluationResponse represents the budget screen payload
type RuleEvaluationResponse struct {
	Rule        BudgetRuleResponse          `json:"rule"`
	TotalIncome string                      `json:"totalIncome"`
	Categories  []RuleCategoryValueResponse `json:"categories"`
}

// parseRuleRequest converts the wire format into a service input
func parseRuleRequest(c echo.Context, req *BudgetRuleRequest) (service.CreateRuleInput, error) {
	categories := make([]service.RuleCategoryInput, len(req.Categories))
	for i, cat := range req.Categories {
		pct, err := decimal.NewFromString(cat.Percentage)
		if err != nil {
			return service.CreateRuleInput{}, NewValidationError(c, "Invalid percentage", []ValidationError{
				{Field: "categories", Message: "Percentages must be valid decimal numbers"},
			})
		}
		categories[i] = service.RuleCategoryInput{
			Name:              cat.Name,
			Percentage:        pct,
			Color:             cat.Color,
			ExpenseCategories: cat.ExpenseCategories,
		}
	}
	return service.CreateRuleInput{
		Name:        req.Name,
		Description: req.Description,
		Categories:  categories,
	}, nil
}

func ruleValidationResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrRuleCategoryRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categories", Message: "At least one category is required"},
		})
	case errors.Is(err, domain.ErrInvalidPercentages):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categories", Message: "Category percentages must sum to exactly 100"},
		})
	case errors.Is(err, domain.ErrInvalidCategory):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categories", Message: "Unknown expense category in mapping"},
		})
	}
	return nil
}

// GetRules handles GET /api/v1/budget-rules
func (h *BudgetRuleHandler) GetRules(c echo.Context) error {
	userID := middleware.GetUserID(c)

	rules, err := h.ruleService.GetRules(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get budget rules")
		return NewInternalError(c, "Failed to get budget rules")
	}

	response := make([]BudgetRuleResponse, len(rules))
	for i, rule := range rules {
		response[i] = toRuleResponse(rule)
	}
	return c.JSON(http.StatusOK, response)
}

// GetRule handles GET /api/v1/budget-rules/:id
func (h *BudgetRuleHandler) GetRule(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id := c.Param("id")

	rule, err := h.ruleService.GetRuleByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetRuleNotFound) {
			return NewNotFoundError(c, "Budget rule not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("rule_id", id).Msg("Failed to get budget rule")
		return NewInternalError(c, "Failed to get budget rule")
	}
	return c.JSON(http.StatusOK, toRuleResponse(rule))
}

// CreateRule handles POST /api/v1/budget-rules
func (h *BudgetRuleHandler) CreateRule(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req BudgetRuleRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, perr := parseRuleRequest(c, &req)
	if perr != nil {
		return perr
	}

	rule, err := h.ruleService.CreateRule(userID, input)
	if err != nil {
		if resp := ruleValidationResponse(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create budget rule")
		return NewInternalError(c, "Failed to create budget rule")
	}

	log.Info().Str("user_id", userID.String()).Str("rule_id", rule.ID).Str("name", rule.Name).Msg("Budget rule created")
	return c.JSON(http.StatusCreated, toRuleResponse(rule))
}

// UpdateRule handles PUT /api/v1/budget-rules/:id
func (h *BudgetRuleHandler) UpdateRule(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id := c.Param("id")

	var req BudgetRuleRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, perr := parseRuleRequest(c, &req)
	if perr != nil {
		return perr
	}

	rule, err := h.ruleService.UpdateRule(userID, id, input)
	if err != nil {
		if resp := ruleValidationResponse(c, err); resp != nil {
			return resp
		}
		switch {
		case errors.Is(err, domain.ErrDefaultRuleImmutable):
			return NewForbiddenError(c, "The built-in 50/30/20 rule cannot be modified")
		case errors.Is(err, domain.ErrBudgetRuleNotFound):
			return NewNotFoundError(c, "Budget rule not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("rule_id", id).Msg("Failed to update budget rule")
		return NewInternalError(c, "Failed to update budget rule")
	}

	log.Info().Str("user_id", userID.String()).Str("rule_id", id).Msg("Budget rule updated")
	return c.JSON(http.StatusOK, toRuleResponse(rule))
}

// DeleteRule handles DELETE /api/v1/budget-rules/:id
func (h *BudgetRuleHandler) DeleteRule(c echo.Context) error {
	userID := middleware.GetUserID(c)
	id := c.Param("id")

	if err := h.ruleService.DeleteRule(userID, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrDefaultRuleImmutable):
			return NewForbiddenError(c, "The built-in 50/30/20 rule cannot be deleted")
		case errors.Is(err, domain.ErrBudgetRuleNotFound):
			return NewNotFoundError(c, "Budget rule not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("rule_id", id).Msg("Failed to delete budget rule")
		return NewInternalError(c, "Failed to delete budget rule")
	}

	log.Info().Str("user_id", userID.String()).Str("rule_id", id).Msg("Budget rule deleted")
	return c.NoContent(http.StatusNoContent)
}

// GetActiveRule handles GET /api/v1/budget-rules/active
func (h *BudgetRuleHandler) GetActiveRule(c echo.Context) error {
	userID := middleware.GetUserID(c)

	rule, err := h.ruleService.GetActiveRule(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get active budget rule")
		return NewInternalError(c, "Failed to get active budget rule")
	}
	return c.JSON(http.StatusOK, toRuleResponse(rule))
}

// SetActiveRule handles PUT /api/v1/budget-rules/active
func (h *BudgetRuleHandler) SetActiveRule(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req SetActiveRuleRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.RuleID == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "ruleId", Message: "Rule ID is required"},
		})
	}

	if _, err := h.ruleService.SetActiveRule(userID, req.RuleID); err != nil {
		if errors.Is(err, domain.ErrBudgetRuleNotFound) {
			return NewNotFoundError(c, "Budget rule not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("rule_id", req.RuleID).Msg("Failed to set active budget rule")
		return NewInternalError(c, "Failed to set active budget rule")
	}

	log.Info().Str("user_id", userID.String()).Str("rule_id", req.RuleID).Msg("Active budget rule changed")
	return c.NoContent(http.StatusNoContent)
}

// GetEvaluation handles GET /api/v1/budget-rules/evaluation?month=YYYY-MM
func (h *BudgetRuleHandler) GetEvaluation(c echo.Context) error {
	userID := middleware.GetUserID(c)

	monthKey := c.QueryParam("month")
	if monthKey == "" {
		monthKey = util.MonthKeyAll
	}

	evaluation, err := h.ruleService.EvaluateActiveRule(userID, monthKey)
	if err != nil {
		if errors.Is(err, util.ErrInvalidMonthKey) {
			return NewValidationError(c, "Invalid month filter", []ValidationError{
				{Field: "month", Message: "Must be YYYY-MM or 'all'"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("month", monthKey).Msg("Failed to evaluate budget rule")
		return NewInternalError(c, "Failed to evaluate budget rule")
	}

	categories := make([]RuleCategoryValueResponse, len(evaluation.Categories))
	for i, value := range evaluation.Categories {
		categories[i] = RuleCategoryValueResponse{
			Name:       value.Name,
			Percentage: value.Percentage.StringFixed(2),
			Color:      value.Color,
			Target:     value.Target.StringFixed(2),
			Current:    value.Current.StringFixed(2),
			Percent:    value.Percent.StringFixed(2),
			OverTarget: value.OverTarget,
		}
	}

	return c.JSON(http.StatusOK, RuleEvaluationResponse{
		Rule:        toRuleResponse(evaluation.Rule),
		TotalIncome: evaluation.TotalIncome.StringFixed(2),
		Categories:  categories,
	})
}

func toRuleResponse(rule *domain.BudgetRule) BudgetRuleResponse {
	categories := make([]RuleCategoryResponse, len(rule.Categories))
	for i, cat := range rule.Categories {
		categories[i] = RuleCategoryResponse{
			Name:              cat.Name,
			Percentage:        cat.Percentage.StringFixed(2),
			Color:             cat.Color,
			ExpenseCategories: cat.ExpenseCategories,
		}
	}
	return BudgetRuleResponse{
		ID:          rule.ID,
		Name:        rule.Name,
		Description: rule.Description,
		Categories:  categories,
		IsDefault:   rule.IsDefault,
		CreatedAt:   rule.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   rule.UpdatedAt.Format(time.RFC3339),
	}
}
