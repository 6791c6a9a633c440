package service

import (
	"strings"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/util"
	"github.com/centavo-app/centavo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IncomeService handles income-related business logic
type IncomeService struct {
	incomeRepo     domain.IncomeRepository
	eventPublisher websocket.EventPublisher
}

// NewIncomeService creates a new IncomeService
func NewIncomeService(incomeRepo domain.IncomeRepository) *IncomeService {
	return &IncomeService{incomeRepo: incomeRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *IncomeService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *IncomeService) publish(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateIncomeInput holds the input for creating an income record
type CreateIncomeInput struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        *time.Time
	Notes       *string
}

// CreateIncome creates a new income record with validation
func (s *IncomeService) CreateIncome(userID uuid.UUID, input CreateIncomeInput) (*domain.Income, error) {
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

	if !domain.IsIncomeCategory(input.Category) {
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

	income := &domain.Income{
		ID:          uuid.New(),
		UserID:      userID,
		Description: description,
		Amount:      input.Amount,
		Category:    input.Category,
		Date:        date,
		Notes:       notes,
	}

	created, err := s.incomeRepo.Create(income)
	if err != nil {
		return nil, err
	}

	s.publish(userID, websocket.IncomeCreated(created))
	return created, nil
}

// GetIncomes retrieves the user's income records, optionally restricted to
// one calendar month
func (s *IncomeService) GetIncomes(userID uuid.UUID, monthKey string) ([]*domain.Income, error) {
	year, month, all, err := util.ParseMonthKey(monthKey)
	if err != nil {
		return nil, err
	}

	incomes, err := s.incomeRepo.GetByUser(userID)
	if err != nil || all {
		return incomes, err
	}

	filtered := make([]*domain.Income, 0, len(incomes))
	for _, income := range incomes {
		if util.InLocalMonth(income.Date, year, month) {
			filtered = append(filtered, income)
		}
	}
	return filtered, nil
}

// GetIncomeByID retrieves a single income record within the user scope
func (s *IncomeService) GetIncomeByID(userID uuid.UUID, id uuid.UUID) (*domain.Income, error) {
	return s.incomeRepo.GetByID(userID, id)
}

// UpdateIncomeInput holds the input for updating an income record
type UpdateIncomeInput struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	Notes       *string
}

// UpdateIncome updates an existing income record with validation
func (s *IncomeService) UpdateIncome(userID uuid.UUID, id uuid.UUID, input UpdateIncomeInput) (*domain.Income, error) {
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

	if !domain.IsIncomeCategory(input.Category) {
		return nil, domain.ErrInvalidCategory
	}

	notes, err := normalizeNotes(input.Notes)
	if err != nil {
		return nil, err
	}

	updated, err := s.incomeRepo.Update(userID, id, &domain.UpdateIncomeData{
		Description: description,
		Amount:      input.Amount,
		Category:    input.Category,
		Date:        input.Date,
		Notes:       notes,
	})
	if err != nil {
		return nil, err
	}

	s.publish(userID, websocket.IncomeUpdated(updated))
	return updated, nil
}

// DeleteIncome removes an income record
func (s *IncomeService) DeleteIncome(userID uuid.UUID, id uuid.UUID) error {
	existing, err := s.incomeRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.incomeRepo.Delete(userID, id); err != nil {
		return err
	}

	s.publish(userID, websocket.IncomeDeleted(existing))
	return nil
}
