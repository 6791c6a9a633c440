package service

import (
	"strings"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/util"
	"github.com/centavo-app/centavo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExpenseService handles expense-related business logic, including the
// reverse side of the goal funding link: deleting or editing a funding
// expense adjusts the linked goal's saved amount.
type ExpenseService struct {
	expenseRepo    domain.ExpenseRepository
	goalRepo       domain.GoalRepository
	eventPublisher websocket.EventPublisher
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, goalRepo domain.GoalRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		goalRepo:    goalRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ExpenseService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ExpenseService) publish(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateExpenseInput holds the input for creating an expense
type CreateExpenseInput struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        *time.Time
	Notes       *string
	GoalID      *uuid.UUID
}

// CreateExpense creates a new expense with validation
func (s *ExpenseService) CreateExpense(userID uuid.UUID, input CreateExpenseInput) (*domain.Expense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if !domain.IsExpenseCategory(input.Category) {
		return nil, domain.ErrInvalidCategory
	}

	date := time.Now()
	if input.Date != nil && !input.Date.IsZero() {
		date = *input.Date
	}

	notes, err := normalizeNotes(input.Notes)
	if err != nil {
		return nil, err
	}

	if input.GoalID != nil {
		if _, err := s.goalRepo.GetByID(userID, *input.GoalID); err != nil {
			return nil, domain.ErrGoalNotFound
		}
	}

	expense := &domain.Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Description: description,
		Amount:      input.Amount,
		Category:    input.Category,
		Date:        date,
		Notes:       notes,
		GoalID:      input.GoalID,
	}

	created, err := s.expenseRepo.Create(expense)
	if err != nil {
		return nil, err
	}

	s.publish(userID, websocket.ExpenseCreated(created))
	return created, nil
}

// GetExpenses retrieves the user's expenses, optionally restricted to one
// calendar month
func (s *ExpenseService) GetExpenses(userID uuid.UUID, monthKey string) ([]*domain.Expense, error) {
	year, month, all, err := util.ParseMonthKey(monthKey)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.GetByUser(userID)
	if err != nil || all {
		return expenses, err
	}

	filtered := make([]*domain.Expense, 0, len(expenses))
	for _, expense := range expenses {
		if util.InLocalMonth(expense.Date, year, month) {
			filtered = append(filtered, expense)
		}
	}
	return filtered, nil
}

// GetExpenseByID retrieves a single expense within the user scope
func (s *ExpenseService) GetExpenseByID(userID uuid.UUID, id uuid.UUID) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(userID, id)
}

// UpdateExpenseInput holds the input for updating an expense
type UpdateExpenseInput struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	Notes       *string
}

// UpdateExpense updates an existing expense. When the expense funds a goal,
// the goal's saved amount follows the edit: an amount change applies the
// delta, a re-categorization away from "savings" withdraws the full amount
// and drops the link.
func (s *ExpenseService) UpdateExpense(userID uuid.UUID, id uuid.UUID, input UpdateExpenseInput) (*domain.Expense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if !domain.IsExpenseCategory(input.Category) {
		return nil, domain.ErrInvalidCategory
	}

	notes, err := normalizeNotes(input.Notes)
	if err != nil {
		return nil, err
	}

	existing, err := s.expenseRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	goalID := existing.GoalID
	linkedGoal := s.resolveLinkedGoal(userID, existing)

	var goalDelta decimal.Decimal
	if linkedGoal != nil {
		if input.Category != string(domain.CategorySavings) {
			// Money routed away from savings is withdrawn from the goal
			goalDelta = existing.Amount.Neg()
			goalID = nil
		} else {
			goalDelta = input.Amount.Sub(existing.Amount)
		}
	}

	updated, err := s.expenseRepo.Update(userID, id, &domain.UpdateExpenseData{
		Description: description,
		Amount:      input.Amount,
		Category:    input.Category,
		Date:        input.Date,
		Notes:       notes,
		GoalID:      goalID,
	})
	if err != nil {
		return nil, err
	}

	if linkedGoal != nil && !goalDelta.IsZero() {
		if goal, err := s.goalRepo.AddToCurrentAmount(userID, linkedGoal.ID, goalDelta); err != nil {
			// The expense edit already happened; surface the drift instead of failing it
			log.Warn().Err(err).
				Str("goal_id", linkedGoal.ID.String()).
				Str("expense_id", id.String()).
				Msg("Failed to adjust goal after funding expense edit")
		} else {
			s.publish(userID, websocket.GoalUpdated(goal))
		}
	}

	s.publish(userID, websocket.ExpenseUpdated(updated))
	return updated, nil
}

// DeleteExpense removes an expense. Deleting a goal-funding expense
// symmetrically withdraws its amount from the goal, floored at zero.
func (s *ExpenseService) DeleteExpense(userID uuid.UUID, id uuid.UUID) error {
	existing, err := s.expenseRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	linkedGoal := s.resolveLinkedGoal(userID, existing)

	if err := s.expenseRepo.Delete(userID, id); err != nil {
		return err
	}

	if linkedGoal != nil {
		if goal, err := s.goalRepo.AddToCurrentAmount(userID, linkedGoal.ID, existing.Amount.Neg()); err != nil {
			log.Warn().Err(err).
				Str("goal_id", linkedGoal.ID.String()).
				Str("expense_id", id.String()).
				Msg("Failed to withdraw goal funds after expense deletion")
		} else {
			s.publish(userID, websocket.GoalUpdated(goal))
		}
	}

	s.publish(userID, websocket.ExpenseDeleted(existing))
	return nil
}

// resolveLinkedGoal finds the goal an expense funds, if any. The structural
// GoalID wins; savings expenses that predate it are matched through the
// legacy notes convention.
func (s *ExpenseService) resolveLinkedGoal(userID uuid.UUID, expense *domain.Expense) *domain.Goal {
	if expense.GoalID != nil {
		goal, err := s.goalRepo.GetByID(userID, *expense.GoalID)
		if err != nil {
			return nil
		}
		return goal
	}

	if expense.Category != string(domain.CategorySavings) || expense.Notes == nil {
		return nil
	}
	title, ok := strings.CutPrefix(*expense.Notes, domain.GoalNotePrefix)
	if !ok {
		return nil
	}
	goal, err := s.goalRepo.GetByTitle(userID, strings.TrimSpace(title))
	if err != nil {
		return nil
	}
	return goal
}

func normalizeNotes(notes *string) (*string, error) {
	if notes == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > domain.MaxNotesLength {
		return nil, domain.ErrNotesTooLong
	}
	return &trimmed, nil
}
