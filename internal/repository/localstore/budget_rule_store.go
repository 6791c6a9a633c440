package localstore

import (
	"sort"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/google/uuid"
)

// BudgetRuleStore implements domain.BudgetRuleRepository on the snapshot
type BudgetRuleStore struct {
	store *Store
}

func cloneRule(r *domain.BudgetRule) *domain.BudgetRule {
	c := *r
	c.Categories = make([]domain.RuleCategory, len(r.Categories))
	copy(c.Categories, r.Categories)
	return &c
}

// Create inserts a new rule. Re-inserting an existing ID returns the stored
// rule unchanged, which keeps default-rule recovery idempotent.
func (s *BudgetRuleStore) Create(rule *domain.BudgetRule) (*domain.BudgetRule, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, existing := s.find(rule.UserID, rule.ID); existing != nil {
		return cloneRule(existing), nil
	}

	now := time.Now()
	record := cloneRule(rule)
	record.CreatedAt = now
	record.UpdatedAt = now

	s.store.data.BudgetRules = append(s.store.data.BudgetRules, record)
	if err := s.store.save(); err != nil {
		s.store.data.BudgetRules = s.store.data.BudgetRules[:len(s.store.data.BudgetRules)-1]
		return nil, err
	}
	return cloneRule(record), nil
}

func (s *BudgetRuleStore) find(userID uuid.UUID, id string) (int, *domain.BudgetRule) {
	for i, r := range s.store.data.BudgetRules {
		if r.UserID == userID && r.ID == id {
			return i, r
		}
	}
	return -1, nil
}

// GetByID retrieves a rule within the user scope
func (s *BudgetRuleStore) GetByID(userID uuid.UUID, id string) (*domain.BudgetRule, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	_, rule := s.find(userID, id)
	if rule == nil {
		return nil, domain.ErrBudgetRuleNotFound
	}
	return cloneRule(rule), nil
}

// GetByUser retrieves all rules of a user, default first then by creation
func (s *BudgetRuleStore) GetByUser(userID uuid.UUID) ([]*domain.BudgetRule, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	rules := make([]*domain.BudgetRule, 0)
	for _, r := range s.store.data.BudgetRules {
		if r.UserID == userID {
			rules = append(rules, cloneRule(r))
		}
	}
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].IsDefault != rules[j].IsDefault {
			return rules[i].IsDefault
		}
		return rules[i].CreatedAt.Before(rules[j].CreatedAt)
	})
	return rules, nil
}

// Update replaces the mutable fields of a rule
func (s *BudgetRuleStore) Update(rule *domain.BudgetRule) (*domain.BudgetRule, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	_, stored := s.find(rule.UserID, rule.ID)
	if stored == nil {
		return nil, domain.ErrBudgetRuleNotFound
	}

	prev := cloneRule(stored)
	stored.Name = rule.Name
	stored.Description = rule.Description
	stored.Categories = make([]domain.RuleCategory, len(rule.Categories))
	copy(stored.Categories, rule.Categories)
	stored.UpdatedAt = time.Now()

	if err := s.store.save(); err != nil {
		*stored = *prev
		return nil, err
	}
	return cloneRule(stored), nil
}

// Delete removes a rule within the user scope
func (s *BudgetRuleStore) Delete(userID uuid.UUID, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	idx, rule := s.find(userID, id)
	if rule == nil {
		return domain.ErrBudgetRuleNotFound
	}

	s.store.data.BudgetRules = append(s.store.data.BudgetRules[:idx], s.store.data.BudgetRules[idx+1:]...)
	if err := s.store.save(); err != nil {
		s.store.data.BudgetRules = append(s.store.data.BudgetRules, rule)
		return err
	}
	return nil
}
