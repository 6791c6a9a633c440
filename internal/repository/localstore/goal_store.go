package localstore

import (
	"sort"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalStore implements domain.GoalRepository on the snapshot
type GoalStore struct {
	store *Store
}

func cloneGoal(g *domain.Goal) *domain.Goal {
	c := *g
	return &c
}

// Create inserts a new goal and persists the snapshot
func (s *GoalStore) Create(goal *domain.Goal) (*domain.Goal, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	now := time.Now()
	record := cloneGoal(goal)
	record.CreatedAt = now
	record.UpdatedAt = now

	s.store.data.Goals = append(s.store.data.Goals, record)
	if err := s.store.save(); err != nil {
		s.store.data.Goals = s.store.data.Goals[:len(s.store.data.Goals)-1]
		return nil, err
	}
	return cloneGoal(record), nil
}

func (s *GoalStore) find(userID uuid.UUID, id uuid.UUID) (int, *domain.Goal) {
	for i, g := range s.store.data.Goals {
		if g.UserID == userID && g.ID == id {
			return i, g
		}
	}
	return -1, nil
}

// GetByID retrieves a goal within the user scope
func (s *GoalStore) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.Goal, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	_, goal := s.find(userID, id)
	if goal == nil {
		return nil, domain.ErrGoalNotFound
	}
	return cloneGoal(goal), nil
}

// GetByTitle retrieves a goal by its exact title, oldest match first
func (s *GoalStore) GetByTitle(userID uuid.UUID, title string) (*domain.Goal, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var match *domain.Goal
	for _, g := range s.store.data.Goals {
		if g.UserID != userID || g.Title != title {
			continue
		}
		if match == nil || g.CreatedAt.Before(match.CreatedAt) {
			match = g
		}
	}
	if match == nil {
		return nil, domain.ErrGoalNotFound
	}
	return cloneGoal(match), nil
}

// GetByUser retrieves all goals of a user, oldest first
func (s *GoalStore) GetByUser(userID uuid.UUID) ([]*domain.Goal, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	goals := make([]*domain.Goal, 0)
	for _, g := range s.store.data.Goals {
		if g.UserID == userID {
			goals = append(goals, cloneGoal(g))
		}
	}
	sort.SliceStable(goals, func(i, j int) bool {
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})
	return goals, nil
}

// Update replaces the general fields of a goal
func (s *GoalStore) Update(userID uuid.UUID, id uuid.UUID, data *domain.UpdateGoalData) (*domain.Goal, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	_, goal := s.find(userID, id)
	if goal == nil {
		return nil, domain.ErrGoalNotFound
	}

	prev := *goal
	goal.Title = data.Title
	goal.Description = data.Description
	goal.TargetAmount = data.TargetAmount
	goal.Deadline = data.Deadline
	goal.UpdatedAt = time.Now()

	if err := s.store.save(); err != nil {
		*goal = prev
		return nil, err
	}
	return cloneGoal(goal), nil
}

// AddToCurrentAmount adjusts the accumulated amount, flooring at zero
func (s *GoalStore) AddToCurrentAmount(userID uuid.UUID, id uuid.UUID, delta decimal.Decimal) (*domain.Goal, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	_, goal := s.find(userID, id)
	if goal == nil {
		return nil, domain.ErrGoalNotFound
	}

	prev := *goal
	next := goal.CurrentAmount.Add(delta)
	if next.IsNegative() {
		next = decimal.Zero
	}
	goal.CurrentAmount = next
	goal.UpdatedAt = time.Now()

	if err := s.store.save(); err != nil {
		*goal = prev
		return nil, err
	}
	return cloneGoal(goal), nil
}

// Delete removes a goal within the user scope
func (s *GoalStore) Delete(userID uuid.UUID, id uuid.UUID) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	idx, goal := s.find(userID, id)
	if goal == nil {
		return domain.ErrGoalNotFound
	}

	s.store.data.Goals = append(s.store.data.Goals[:idx], s.store.data.Goals[idx+1:]...)
	if err := s.store.save(); err != nil {
		s.store.data.Goals = append(s.store.data.Goals, goal)
		return err
	}
	return nil
}
