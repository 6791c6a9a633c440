package localstore

import (
	"sort"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/google/uuid"
)

// IncomeStore implements domain.IncomeRepository on the snapshot
type IncomeStore struct {
	store *Store
}

func cloneIncome(i *domain.Income) *domain.Income {
	c := *i
	return &c
}

// Create inserts a new income and persists the snapshot
func (s *IncomeStore) Create(income *domain.Income) (*domain.Income, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	now := time.Now()
	record := cloneIncome(income)
	record.CreatedAt = now
	record.UpdatedAt = now

	s.store.data.Incomes = append(s.store.data.Incomes, record)
	if err := s.store.save(); err != nil {
		s.store.data.Incomes = s.store.data.Incomes[:len(s.store.data.Incomes)-1]
		return nil, err
	}
	return cloneIncome(record), nil
}

func (s *IncomeStore) find(userID uuid.UUID, id uuid.UUID) (int, *domain.Income) {
	for i, income := range s.store.data.Incomes {
		if income.UserID == userID && income.ID == id {
			return i, income
		}
	}
	return -1, nil
}

// GetByID retrieves an income within the user scope
func (s *IncomeStore) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Income, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	_, income := s.find(userID, id)
	if income == nil {
		return nil, domain.ErrIncomeNotFound
	}
	return cloneIncome(income), nil
}

// GetByUser retrieves all incomes of a user, newest first
func (s *IncomeStore) GetByUser(userID uuid.UUID) ([]*domain.Income, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	incomes := make([]*domain.Income, 0)
	for _, i := range s.store.data.Incomes {
		if i.UserID == userID {
			incomes = append(incomes, cloneIncome(i))
		}
	}
	sort.SliceStable(incomes, func(i, j int) bool {
		return incomes[i].Date.After(incomes[j].Date)
	})
	return incomes, nil
}

// Update replaces the mutable fields of an income
func (s *IncomeStore) Update(userID uuid.UUID, id uuid.UUID, data *domain.UpdateIncomeData) (*domain.Income, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	_, income := s.find(userID, id)
	if income == nil {
		return nil, domain.ErrIncomeNotFound
	}

	prev := *income
	income.Description = data.Description
	income.Amount = data.Amount
	income.Category = data.Category
	income.Date = data.Date
	income.Notes = data.Notes
	income.UpdatedAt = time.Now()

	if err := s.store.save(); err != nil {
		*income = prev
		return nil, err
	}
	return cloneIncome(income), nil
}

// Delete removes an income within the user scope
func (s *IncomeStore) Delete(userID uuid.UUID, id uuid.UUID) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	idx, income := s.find(userID, id)
	if income == nil {
		return domain.ErrIncomeNotFound
	}

	s.store.data.Incomes = append(s.store.data.Incomes[:idx], s.store.data.Incomes[idx+1:]...)
	if err := s.store.save(); err != nil {
		s.store.data.Incomes = append(s.store.data.Incomes, income)
		return err
	}
	return nil
}
