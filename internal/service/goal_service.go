package service

import (
	"strings"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// GoalService handles savings-goal business logic. Funding a goal is a
// two-step saga: the goal's saved amount is incremented, then a linked
// "savings" expense is recorded so total expenses stay consistent with the
// money routed to savings. A failed second step is compensated by rolling the
// increment back.
type GoalService struct {
	goalRepo       domain.GoalRepository
	expenseRepo    domain.ExpenseRepository
	eventPublisher websocket.EventPublisher
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo domain.GoalRepository, expenseRepo domain.ExpenseRepository) *GoalService {
	return &GoalService{
		goalRepo:    goalRepo,
		expenseRepo: expenseRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *GoalService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *GoalService) publish(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateGoalInput holds the input for creating a goal
type CreateGoalInput struct {
	Title         string
	Description   *string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      string
}

// CreateGoal creates a new savings goal with validation
func (s *GoalService) CreateGoal(userID uuid.UUID, input CreateGoalInput) (*domain.Goal, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTitleLength {
		return nil, domain.ErrTitleTooLong
	}

	if input.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidTargetAmount
	}

	current := input.CurrentAmount
	if current.IsNegative() {
		current = decimal.Zero
	}

	goal := &domain.Goal{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         title,
		Description:   input.Description,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: current,
		Deadline:      strings.TrimSpace(input.Deadline),
	}

	created, err := s.goalRepo.Create(goal)
	if err != nil {
		return nil, err
	}

	s.publish(userID, websocket.GoalCreated(created))
	return created, nil
}

// GetGoals retrieves all goals of the user
func (s *GoalService) GetGoals(userID uuid.UUID) ([]*domain.Goal, error) {
	return s.goalRepo.GetByUser(userID)
}

// GetGoalByID retrieves a single goal within the user scope
func (s *GoalService) GetGoalByID(userID uuid.UUID, id uuid.UUID) (*domain.Goal, error) {
	return s.goalRepo.GetByID(userID, id)
}

// UpdateGoalInput holds the general-update fields of a goal. The saved
// amount is not among them; it only moves through AddFunds and the funding
// expense paths.
type UpdateGoalInput struct {
	Title        string
	Description  *string
	TargetAmount decimal.Decimal
	Deadline     string
}

// UpdateGoal updates a goal's descriptive fields and target
func (s *GoalService) UpdateGoal(userID uuid.UUID, id uuid.UUID, input UpdateGoalInput) (*domain.Goal, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTitleLength {
		return nil, domain.ErrTitleTooLong
	}

	if input.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidTargetAmount
	}

	updated, err := s.goalRepo.Update(userID, id, &domain.UpdateGoalData{
		Title:        title,
		Description:  input.Description,
		TargetAmount: input.TargetAmount,
		Deadline:     strings.TrimSpace(input.Deadline),
	})
	if err != nil {
		return nil, err
	}

	s.publish(userID, websocket.GoalUpdated(updated))
	return updated, nil
}

// DeleteGoal removes a goal. Funding expenses that reference it keep their
// amounts (total expenses stay truthful) but lose the link target.
func (s *GoalService) DeleteGoal(userID uuid.UUID, id uuid.UUID) error {
	existing, err := s.goalRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.goalRepo.Delete(userID, id); err != nil {
		return err
	}

	s.publish(userID, websocket.GoalDeleted(existing))
	return nil
}

// AddFundsResult carries both records touched by a funding operation
type AddFundsResult struct {
	Goal    *domain.Goal    `json:"goal"`
	Expense *domain.Expense `json:"expense"`
}

// AddFunds increments a goal's saved amount and records the linked savings
// expense. Rejects non-positive amounts before any mutation. If the expense
// write fails after the goal was incremented, the increment is compensated
// and the operation reports failure.
func (s *GoalService) AddFunds(userID uuid.UUID, goalID uuid.UUID, amount decimal.Decimal) (*AddFundsResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	goal, err := s.goalRepo.GetByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	updatedGoal, err := s.goalRepo.AddToCurrentAmount(userID, goalID, amount)
	if err != nil {
		return nil, err
	}

	notes := domain.GoalNotePrefix + goal.Title
	expense := &domain.Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Description: goal.Title,
		Amount:      amount,
		Category:    string(domain.CategorySavings),
		Date:        time.Now(),
		Notes:       &notes,
		GoalID:      &goalID,
	}

	createdExpense, err := s.expenseRepo.Create(expense)
	if err != nil {
		// Compensate the increment so the goal doesn't claim unrecorded money
		if _, rollbackErr := s.goalRepo.AddToCurrentAmount(userID, goalID, amount.Neg()); rollbackErr != nil {
			log.Error().Err(rollbackErr).
				Str("goal_id", goalID.String()).
				Msg("Failed to compensate goal increment after funding expense failure")
		}
		return nil, domain.ErrFundingFailed
	}

	result := &AddFundsResult{Goal: updatedGoal, Expense: createdExpense}
	s.publish(userID, websocket.GoalFunded(result))
	s.publish(userID, websocket.ExpenseCreated(createdExpense))
	return result, nil
}
