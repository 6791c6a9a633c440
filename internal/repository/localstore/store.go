// Package localstore persists all records of a single local user as one JSON
// snapshot on disk. It backs the server when no identity provider is
// configured: the file is read once at startup and rewritten after every
// mutation, so a crash never loses more than the in-flight write.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

type model struct {
	Users       []*domain.User       `json:"users"`
	Settings    []*domain.Settings   `json:"settings"`
	Expenses    []*domain.Expense    `json:"expenses"`
	Incomes     []*domain.Income     `json:"incomes"`
	Goals       []*domain.Goal       `json:"goals"`
	BudgetRules []*domain.BudgetRule `json:"budgetRules"`
}

// Store holds the snapshot in memory and serializes access to it. The
// per-entity repositories share one Store so every view sees every write.
type Store struct {
	mu   sync.Mutex
	path string
	data model
}

// Open reads the snapshot at path, creating an empty store when the file
// does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Info().Str("path", path).Msg("No data file found, starting empty")
			return s, nil
		}
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse data file: %w", err)
	}

	log.Info().
		Str("path", path).
		Int("expenses", len(s.data.Expenses)).
		Int("incomes", len(s.data.Incomes)).
		Int("goals", len(s.data.Goals)).
		Msg("Loaded data file")
	return s, nil
}

// save writes the snapshot atomically. Callers must hold the mutex.
func (s *Store) save() error {
	raw, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

// Expenses returns the expense repository view of the store
func (s *Store) Expenses() *ExpenseStore { return &ExpenseStore{store: s} }

// Incomes returns the income repository view of the store
func (s *Store) Incomes() *IncomeStore { return &IncomeStore{store: s} }

// Goals returns the goal repository view of the store
func (s *Store) Goals() *GoalStore { return &GoalStore{store: s} }

// BudgetRules returns the budget rule repository view of the store
func (s *Store) BudgetRules() *BudgetRuleStore { return &BudgetRuleStore{store: s} }

// Users returns the user repository view of the store
func (s *Store) Users() *UserStore { return &UserStore{store: s} }

// Settings returns the settings repository view of the store
func (s *Store) Settings() *SettingsStore { return &SettingsStore{store: s} }
