package localstore

import (
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/google/uuid"
)

// UserStore implements domain.UserRepository on the snapshot. Local mode has
// exactly one user, but the repository keeps the full contract so the rest of
// the code does not branch on storage backend.
type UserStore struct {
	store *Store
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

// GetByID retrieves a user by their UUID
func (s *UserStore) GetByID(id uuid.UUID) (*domain.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, u := range s.store.data.Users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// GetBySubject retrieves a user by their identity subject
func (s *UserStore) GetBySubject(subject string) (*domain.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, u := range s.store.data.Users {
		if u.Subject == subject {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetBySubject creates a new user or returns the existing one
func (s *UserStore) CreateOrGetBySubject(subject, email string, name *string) (*domain.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, u := range s.store.data.Users {
		if u.Subject == subject {
			return cloneUser(u), nil
		}
	}

	record := &domain.User{
		ID:        uuid.New(),
		Subject:   subject,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now(),
	}
	if subject == "local" {
		record.ID = domain.AnonymousUserID
	}

	s.store.data.Users = append(s.store.data.Users, record)
	if err := s.store.save(); err != nil {
		s.store.data.Users = s.store.data.Users[:len(s.store.data.Users)-1]
		return nil, err
	}
	return cloneUser(record), nil
}

// UpdateName updates only the user's display name
func (s *UserStore) UpdateName(id uuid.UUID, name string) (*domain.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, u := range s.store.data.Users {
		if u.ID == id {
			prev := u.Name
			u.Name = &name
			if err := s.store.save(); err != nil {
				u.Name = prev
				return nil, err
			}
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// SettingsStore implements domain.SettingsRepository on the snapshot
type SettingsStore struct {
	store *Store
}

func cloneSettings(s *domain.Settings) *domain.Settings {
	c := *s
	return &c
}

// Get retrieves the settings of a user
func (s *SettingsStore) Get(userID uuid.UUID) (*domain.Settings, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, st := range s.store.data.Settings {
		if st.UserID == userID {
			return cloneSettings(st), nil
		}
	}
	return nil, domain.ErrNotFound
}

// Save upserts the settings of a user
func (s *SettingsStore) Save(settings *domain.Settings) (*domain.Settings, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	record := cloneSettings(settings)
	record.UpdatedAt = time.Now()

	for i, st := range s.store.data.Settings {
		if st.UserID == settings.UserID {
			prev := st
			s.store.data.Settings[i] = record
			if err := s.store.save(); err != nil {
				s.store.data.Settings[i] = prev
				return nil, err
			}
			return cloneSettings(record), nil
		}
	}

	s.store.data.Settings = append(s.store.data.Settings, record)
	if err := s.store.save(); err != nil {
		s.store.data.Settings = s.store.data.Settings[:len(s.store.data.Settings)-1]
		return nil, err
	}
	return cloneSettings(record), nil
}
