package domain

import "errors"

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInternalError        = errors.New("internal error")
	ErrUserNotFound         = errors.New("user not found")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrIncomeNotFound       = errors.New("income not found")
	ErrGoalNotFound         = errors.New("goal not found")
	ErrBudgetRuleNotFound   = errors.New("budget rule not found")
	ErrDescriptionRequired  = errors.New("description is required")
	ErrDescriptionTooLong   = errors.New("description exceeds maximum length")
	ErrTitleRequired        = errors.New("title is required")
	ErrTitleTooLong         = errors.New("title exceeds maximum length")
	ErrNameRequired         = errors.New("name is required")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrInvalidCurrency      = errors.New("invalid currency")
	ErrNotesTooLong         = errors.New("notes exceed maximum length")
	ErrInvalidTargetAmount  = errors.New("target amount must be positive")
	ErrInvalidPercentages   = errors.New("category percentages must sum to 100")
	ErrRuleCategoryRequired = errors.New("budget rule needs at least one category")
	ErrDefaultRuleImmutable = errors.New("the default budget rule cannot be modified or deleted")
	ErrFundingFailed        = errors.New("funding expense could not be recorded")
)

// Validation constants
const (
	MaxDescriptionLength = 255
	MaxNotesLength       = 1000
	MaxTitleLength       = 255
)
