package localstore

import (
	"sort"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/google/uuid"
)

// ExpenseStore implements domain.ExpenseRepository on the snapshot
type ExpenseStore struct {
	store *Store
}

func cloneExpense(e *domain.Expense) *domain.Expense {
	c := *e
	return &c
}

// Create inserts a new expense and persists the snapshot
func (s *ExpenseStore) Create(expense *domain.Expense) (*domain.Expense, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	now := time.Now()
	record := cloneExpense(expense)
	record.CreatedAt = now
	record.UpdatedAt = now

	s.store.data.Expenses = append(s.store.data.Expenses, record)
	if err := s.store.save(); err != nil {
		s.store.data.Expenses = s.store.data.Expenses[:len(s.store.data.Expenses)-1]
		return nil, err
	}
	return cloneExpense(record), nil
}

func (s *ExpenseStore) find(userID uuid.UUID, id uuid.UUID) (int, *domain.Expense) {
	for i, e := range s.store.data.Expenses {
		if e.UserID == userID && e.ID == id {
			return i, e
		}
	}
	return -1, nil
}

// GetByID retrieves an expense within the user scope
func (s *ExpenseStore) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Expense, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	_, expense := s.find(userID, id)
	if expense == nil {
		return nil, domain.ErrExpenseNotFound
	}
	return cloneExpense(expense), nil
}

// GetByUser retrieves all expenses of a user, newest first
func (s *ExpenseStore) GetByUser(userID uuid.UUID) ([]*domain.Expense, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	expenses := make([]*domain.Expense, 0)
	for _, e := range s.store.data.Expenses {
		if e.UserID == userID {
			expenses = append(expenses, cloneExpense(e))
		}
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date.After(expenses[j].Date)
	})
	return expenses, nil
}

// Update replaces the mutable fields of an expense
func (s *ExpenseStore) Update(userID uuid.UUID, id uuid.UUID, data *domain.UpdateExpenseData) (*domain.Expense, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	_, expense := s.find(userID, id)
	if expense == nil {
		return nil, domain.ErrExpenseNotFound
	}

	prev := *expense
	expense.Description = data.Description
	expense.Amount = data.Amount
	expense.Category = data.Category
	expense.Date = data.Date
	expense.Notes = data.Notes
	expense.GoalID = data.GoalID
	expense.UpdatedAt = time.Now()

	if err := s.store.save(); err != nil {
		*expense = prev
		return nil, err
	}
	return cloneExpense(expense), nil
}

// SetReceiptPath attaches or clears the stored receipt reference
func (s *ExpenseStore) SetReceiptPath(userID uuid.UUID, id uuid.UUID, path *string) (*domain.Expense, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	_, expense := s.find(userID, id)
	if expense == nil {
		return nil, domain.ErrExpenseNotFound
	}

	prev := *expense
	expense.ReceiptPath = path
	expense.UpdatedAt = time.Now()

	if err := s.store.save(); err != nil {
		*expense = prev
		return nil, err
	}
	return cloneExpense(expense), nil
}

// Delete removes an expense within the user scope
func (s *ExpenseStore) Delete(userID uuid.UUID, id uuid.UUID) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	idx, expense := s.find(userID, id)
	if expense == nil {
		return domain.ErrExpenseNotFound
	}

	s.store.data.Expenses = append(s.store.data.Expenses[:idx], s.store.data.Expenses[idx+1:]...)
	if err := s.store.save(); err != nil {
		s.store.data.Expenses = append(s.store.data.Expenses, expense)
		return err
	}
	return nil
}
